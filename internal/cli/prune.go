package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove records of contracts that no longer exist on-chain",
		Long: `Check every deployment record of the selected network against the chain
and remove the records whose address holds no code. This is useful after a
local node was restarted, so the next run deploys the units again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// First, collect stale records (dry run)
			result, err := app.PruneRegistry.Run(cmd.Context(), usecase.PruneRegistryParams{DryRun: true})
			if err != nil {
				return err
			}

			renderer := render.NewResetRenderer(cmd.OutOrStdout())
			if len(result.Stale) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("All %d records are live", result.Checked)))
				return nil
			}

			stale := &usecase.ResetRegistryResult{Deployments: result.Stale}
			renderer.RenderPreview(stale, app.Config.Network.Name)

			if app.Config.NonInteractive {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Running in non-interactive mode. Proceeding with prune..."))
			} else if !app.Selector.Confirm("Remove these deployment records") {
				fmt.Fprintln(cmd.OutOrStdout(), "Prune cancelled.")
				return nil
			}

			if _, err := app.PruneRegistry.Run(cmd.Context(), usecase.PruneRegistryParams{}); err != nil {
				return err
			}

			renderer.RenderResult(stale)
			return nil
		},
	}

	return cmd
}
