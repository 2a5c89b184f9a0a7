package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	var units []string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget deployment records",
		Long: `Remove deployment records of the selected network so the units are
deployed again by the next run. Contracts on chain are left untouched.`,
		Example: `  # Forget everything deployed on localhost
  socotra-deploy reset

  # Redeploy the signer on the next run
  socotra-deploy reset --unit VoteProxySigner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			preview, err := app.ResetRegistry.Run(cmd.Context(), usecase.ResetRegistryParams{
				Units:  units,
				DryRun: true,
			})
			if err != nil {
				return err
			}

			renderer := render.NewResetRenderer(cmd.OutOrStdout())
			if len(preview.Deployments) == 0 {
				renderer.RenderResult(preview)
				return nil
			}
			renderer.RenderPreview(preview, app.Config.Network.Name)

			if app.Config.NonInteractive {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Running in non-interactive mode. Proceeding with reset..."))
			} else if !app.Selector.Confirm("Remove these deployment records") {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return nil
			}

			result, err := app.ResetRegistry.Run(cmd.Context(), usecase.ResetRegistryParams{Units: units})
			if err != nil {
				return err
			}

			renderer.RenderResult(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&units, "unit", nil, "Units to reset (defaults to all)")

	return cmd
}
