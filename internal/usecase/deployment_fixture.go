package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// Fixture is a snapshot of provisioned units and named accounts for tests
type Fixture struct {
	Tag         string
	RunID       string
	Deployments map[string]*models.DeploymentRecord
	Accounts    map[string]models.Account

	catalog UnitCatalog
	binder  ContractBinder
}

// Deployment returns the record of a provisioned unit
func (f *Fixture) Deployment(unit string) (*models.DeploymentRecord, bool) {
	record, ok := f.Deployments[unit]
	return record, ok
}

// Address returns the address of a provisioned unit, or the zero address
func (f *Fixture) Address(unit string) common.Address {
	if record, ok := f.Deployments[unit]; ok {
		return common.HexToAddress(record.Address)
	}
	return common.Address{}
}

// Account returns a named account of the fixture
func (f *Fixture) Account(name string) (models.Account, error) {
	account, ok := f.Accounts[name]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, name)
	}
	return account, nil
}

// Contract returns a callable handle for a provisioned unit
func (f *Fixture) Contract(ctx context.Context, unit string) (*bind.BoundContract, error) {
	record, ok := f.Deployments[unit]
	if !ok {
		return nil, fmt.Errorf("unit %s is not part of fixture %q: %w", unit, f.Tag, domain.ErrNotFound)
	}
	if f.binder == nil {
		return nil, errors.New("no chain client configured for contract handles")
	}

	artifact := unit
	if def, ok := f.catalog.Units()[unit]; ok {
		artifact = def.ArtifactName()
	}
	return f.binder.BindContract(ctx, record, artifact)
}

// DeploymentFixtures hands out memoized deployment fixtures keyed by tag set
type DeploymentFixtures struct {
	cache     *FixtureCache[*Fixture]
	provision *ProvisionTags
	accounts  AccountResolver
	catalog   UnitCatalog
	binder    ContractBinder
}

// NewDeploymentFixtures creates a new DeploymentFixtures use case.
// binder may be nil when contract handles are not needed.
func NewDeploymentFixtures(
	provision *ProvisionTags,
	accounts AccountResolver,
	catalog UnitCatalog,
	binder ContractBinder,
) *DeploymentFixtures {
	return &DeploymentFixtures{
		cache:     NewFixtureCache[*Fixture](),
		provision: provision,
		accounts:  accounts,
		catalog:   catalog,
		binder:    binder,
	}
}

// Fixture provisions the units carrying tags once per run and returns the
// same snapshot on every later call with the same tags.
func (uc *DeploymentFixtures) Fixture(ctx context.Context, tags ...string) (*Fixture, error) {
	key := fixtureKey(tags)
	return uc.cache.WithFixture(ctx, key, func(ctx context.Context) (*Fixture, error) {
		result, err := uc.provision.Run(ctx, ProvisionTagsParams{Tags: tags})
		if err != nil {
			return nil, err
		}

		accounts, err := uc.accounts.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list named accounts: %w", err)
		}

		fixture := &Fixture{
			Tag:         key,
			RunID:       result.RunID,
			Deployments: result.Records(),
			Accounts:    make(map[string]models.Account, len(accounts)),
			catalog:     uc.catalog,
			binder:      uc.binder,
		}
		for _, account := range accounts {
			fixture.Accounts[account.Name] = account
		}
		return fixture, nil
	})
}

// Cache exposes the underlying cache for custom provision functions
func (uc *DeploymentFixtures) Cache() *FixtureCache[*Fixture] {
	return uc.cache
}

// fixtureKey normalizes a tag set into a cache key
func fixtureKey(tags []string) string {
	if len(tags) == 0 {
		return "*"
	}
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ",")
}
