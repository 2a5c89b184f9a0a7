package render

import (
	"fmt"
	"io"

	"github.com/socotra-protocol/contracts/internal/usecase"
)

// ResetRenderer renders registry reset results
type ResetRenderer struct {
	out io.Writer
}

// NewResetRenderer creates a new reset renderer
func NewResetRenderer(out io.Writer) *ResetRenderer {
	return &ResetRenderer{out: out}
}

// RenderPreview lists the records a reset would remove
func (r *ResetRenderer) RenderPreview(result *usecase.ResetRegistryResult, network string) {
	fmt.Fprintf(r.out, "The following deployments on %s will be removed:\n\n", network)
	for _, record := range result.Deployments {
		fmt.Fprintf(r.out, "  - %s at %s\n", unitStyle.Sprint(record.Unit), record.Address)
	}
	fmt.Fprintln(r.out)
}

// RenderResult confirms the reset
func (r *ResetRenderer) RenderResult(result *usecase.ResetRegistryResult) {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "Nothing to reset")
		return
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %d deployment records", len(result.Deployments))))
}
