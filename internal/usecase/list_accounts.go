package usecase

import (
	"context"
	"fmt"
	"slices"
)

// ListAccountsResult contains the configured named accounts
type ListAccountsResult struct {
	Accounts []AccountInfo
}

// AccountInfo is a named account as shown to the user
type AccountInfo struct {
	Name    string
	Address string
	// Units deployed from this account according to the catalog
	Units []string
}

// ListAccounts is the use case for listing named accounts
type ListAccounts struct {
	accounts AccountResolver
	catalog  UnitCatalog
}

// NewListAccounts creates a new ListAccounts use case
func NewListAccounts(accounts AccountResolver, catalog UnitCatalog) *ListAccounts {
	return &ListAccounts{accounts: accounts, catalog: catalog}
}

// Run executes the list accounts use case
func (uc *ListAccounts) Run(ctx context.Context) (*ListAccountsResult, error) {
	accounts, err := uc.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	result := &ListAccountsResult{}
	for _, account := range accounts {
		info := AccountInfo{Name: account.Name, Address: account.Address}
		for name, unit := range uc.catalog.Units() {
			if unit.DeployerName() == account.Name {
				info.Units = append(info.Units, name)
			}
		}
		slices.Sort(info.Units)
		result.Accounts = append(result.Accounts, info)
	}
	return result, nil
}
