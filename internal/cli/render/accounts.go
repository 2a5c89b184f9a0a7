package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// AccountsRenderer renders named accounts
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{out: out}
}

// RenderAccounts renders named accounts with the units they deploy
func (r *AccountsRenderer) RenderAccounts(result *usecase.ListAccountsResult) error {
	if len(result.Accounts) == 0 {
		fmt.Fprintln(r.out, "No named accounts configured")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ACCOUNT", "ADDRESS", "DEPLOYS"})
	for _, account := range result.Accounts {
		t.AppendRow(table.Row{
			unitStyle.Sprint(account.Name),
			addressStyle.Sprint(account.Address),
			strings.Join(account.Units, ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
