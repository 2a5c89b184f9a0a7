package cli

import (
	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
)

// NewAccountsCmd creates the accounts command
func NewAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List named accounts",
		Long:  "List the named accounts of the selected network and the units each one deploys.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListAccounts.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderAccounts(result)
		},
	}
}
