package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeployment renders detailed deployment information
func (r *DeploymentRenderer) RenderDeployment(details *usecase.DeploymentDetails) error {
	record := details.Record

	// Header
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", record.Unit)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Address: %s\n", record.Address)
	fmt.Fprintf(r.out, "  Chain ID: %d\n", record.ChainID)
	fmt.Fprintf(r.out, "  Deployer: %s\n", record.Deployer)
	if details.Unit != nil {
		fmt.Fprintf(r.out, "  Artifact: %s\n", color.New(color.FgYellow).Sprint(details.Unit.ArtifactName()))
		if len(details.Unit.Tags) > 0 {
			fmt.Fprintf(r.out, "  Tags: %s\n", strings.Join(details.Unit.Tags, ", "))
		}
		if len(details.Unit.Deps) > 0 {
			fmt.Fprintf(r.out, "  Depends on: %s\n", strings.Join(details.Unit.Deps, ", "))
		}
	}

	fmt.Fprintln(r.out, "\nConstructor Arguments:")
	if len(record.Args) == 0 {
		fmt.Fprintln(r.out, "  (none)")
	}
	for i, arg := range record.Args {
		fmt.Fprintf(r.out, "  [%d] %v\n", i, arg)
	}

	fmt.Fprintln(r.out, "\nTransaction:")
	if record.TxHash != "" {
		fmt.Fprintf(r.out, "  Hash: %s\n", record.TxHash)
	}
	if record.BlockNumber > 0 {
		fmt.Fprintf(r.out, "  Block: %d\n", record.BlockNumber)
	}
	fmt.Fprintf(r.out, "  Deployed At: %s\n", record.DeployedAt.Local().Format("2006-01-02 15:04:05"))

	return nil
}
