package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

var (
	unitStyle     = color.New(color.FgCyan)
	artifactStyle = color.New(color.FgGreen)
	depsStyle     = color.New(color.FgHiBlack)
	deployStyle   = color.New(color.FgYellow)
	reuseStyle    = color.New(color.Faint)
	headerStyle   = color.New(color.Bold)
)

// ProvisionRenderer renders provisioning plans and results
type ProvisionRenderer struct {
	out io.Writer
}

// NewProvisionRenderer creates a new provision renderer
func NewProvisionRenderer(out io.Writer) *ProvisionRenderer {
	return &ProvisionRenderer{out: out}
}

// GetWriter returns the io.Writer used by this renderer
func (r *ProvisionRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderPlan displays the provisioning plan
func (r *ProvisionRenderer) RenderPlan(result *usecase.ProvisionTagsResult) {
	target := "all units"
	if len(result.Tags) > 0 {
		target = "tags " + strings.Join(result.Tags, ", ")
	}

	fmt.Fprintf(r.out, "\nProvisioning %s\n", target)
	headerStyle.Fprintf(r.out, "Plan: %d units, %d to deploy\n", len(result.Steps), result.Pending())
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	for i, step := range result.Steps {
		fmt.Fprintf(r.out, "%d. ", i+1)
		unitStyle.Fprint(r.out, step.Unit)

		if step.Artifact != step.Unit {
			fmt.Fprint(r.out, " → ")
			artifactStyle.Fprint(r.out, step.Artifact)
		}

		if len(step.Deps) > 0 {
			depsStyle.Fprintf(r.out, " (depends on: %s)", strings.Join(step.Deps, ", "))
		}

		if step.Existing != nil {
			reuseStyle.Fprintf(r.out, " reuse %s", step.Existing.Address)
		} else {
			deployStyle.Fprint(r.out, " deploy")
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
}

// RenderUnitStarting prints the header of a plan step
func (r *ProvisionRenderer) RenderUnitStarting(current, total int, unit string) {
	headerStyle.Fprintf(r.out, "[%d/%d] %s\n", current, total, unit)
}

// RenderUnitResult prints the outcome of a plan step
func (r *ProvisionRenderer) RenderUnitResult(result *usecase.UnitResult) {
	outcome := Title(string(result.Outcome))
	style := reuseStyle
	if result.Outcome == models.OutcomeDeployed {
		style = artifactStyle
	}

	style.Fprintf(r.out, "  %s", outcome)
	fmt.Fprintf(r.out, " at %s", result.Record.Address)
	if result.Outcome == models.OutcomeDeployed && result.Record.TxHash != "" {
		depsStyle.Fprintf(r.out, " (tx %s)", shortAddress(result.Record.TxHash))
	}
	fmt.Fprintln(r.out)
}

// RenderSummary prints the final summary of a run
func (r *ProvisionRenderer) RenderSummary(result *usecase.ProvisionTagsResult) {
	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run, nothing was deployed"))
		return
	}

	deployed := result.Deployed()
	reused := len(result.Results) - deployed
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Provisioned %d units (%d deployed, %d reused)", len(result.Results), deployed, reused)))
}
