package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/socotra-protocol/contracts/internal/cli/render"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// ProvisionProgress renders a provisioning run as it happens
type ProvisionProgress struct {
	renderer *render.ProvisionRenderer
	spinner  *SpinnerProgressReporter

	planRendered bool
}

// NewProvisionProgress creates a new provisioning progress reporter
func NewProvisionProgress(out io.Writer) *ProvisionProgress {
	return &ProvisionProgress{
		renderer: render.NewProvisionRenderer(out),
		spinner:  NewSpinnerProgressReporter(out),
	}
}

// OnProgress handles progress events of a provisioning run
func (p *ProvisionProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case "plan_created":
		if result, ok := event.Metadata.(*usecase.ProvisionTagsResult); ok && !p.planRendered {
			p.renderer.RenderPlan(result)
			p.planRendered = true
		}

	case "unit_starting":
		p.spinner.Stop()
		p.renderer.RenderUnitStarting(event.Current, event.Total, event.Message)

	case "unit_completed":
		p.spinner.Stop()
		if result, ok := event.Metadata.(*usecase.UnitResult); ok {
			p.renderer.RenderUnitResult(result)
		}

	case "unit_failed":
		p.spinner.Stop()
		if err, ok := event.Metadata.(error); ok {
			fmt.Fprintln(p.renderer.GetWriter(), render.FormatError(err.Error()))
		}

	case "provision_completed":
		// Final summary is rendered by the CLI command after this returns
		p.spinner.Stop()

	default:
		// Pass through to spinner for other progress events
		p.spinner.OnProgress(ctx, event)
	}
}

// Info forwards info messages to the spinner
func (p *ProvisionProgress) Info(message string) {
	p.spinner.Info("  " + message)
}

// Error forwards error messages to the spinner
func (p *ProvisionProgress) Error(message string) {
	p.spinner.Error("  " + message)
}

// Ensure ProvisionProgress implements ProgressSink
var _ usecase.ProgressSink = (*ProvisionProgress)(nil)
