package cli

import (
	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags   []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision units by tag",
		Long: `Provision every unit carrying one of the given tags, together with the
units they depend on. Units that already have a deployment record on the
selected network are reused as they are.

Without --tags an interactive run asks which tags to provision and a
non-interactive run provisions every unit.`,
		Example: `  # Deploy the factory
  socotra-deploy deploy --tags SocotraFactory

  # Show what would be deployed on sepolia
  socotra-deploy deploy --tags VoteProxySigner --network sepolia --dry-run

  # Rehearse a full run without a node
  socotra-deploy deploy --backend simulated`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if len(tags) == 0 && !app.Config.NonInteractive {
				tags, err = app.Selector.SelectTags(cmd.Context(), app.ProvisionTags.AvailableTags(), "Select tags to provision")
				if err != nil {
					return err
				}
			}

			result, err := app.ProvisionTags.Run(cmd.Context(), usecase.ProvisionTagsParams{
				Tags:   tags,
				DryRun: dryRun || app.Config.DryRun,
			})
			if err != nil {
				return err
			}

			renderer := render.NewProvisionRenderer(cmd.OutOrStdout())
			// The progress sink only logs in non-interactive runs
			if app.Config.NonInteractive {
				renderer.RenderPlan(result)
			}
			renderer.RenderSummary(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Tags to provision (comma separated)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without deploying")

	return cmd
}
