package cli

import (
	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		tag  string
		unit string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployment records of the selected network, followed by the
catalog units that have not been deployed yet.`,
		Example: `  # List all deployments
  socotra-deploy list

  # List the units tagged VoteProxySigner
  socotra-deploy list --tag VoteProxySigner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Tag:  tag,
				Unit: unit,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&unit, "unit", "", "Filter by unit name")

	return cmd
}
