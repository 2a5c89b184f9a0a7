package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "show [unit]",
		Short: "Show a deployment record",
		Long: `Show the deployment record of a unit. Without a unit name an interactive
run lets you pick one of the recorded deployments.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{}
			if len(args) == 1 {
				params.Unit = args[0]
			}

			details, err := app.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if outputJSON {
				data, err := json.MarshalIndent(details.Record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal deployment: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(details)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	return cmd
}
