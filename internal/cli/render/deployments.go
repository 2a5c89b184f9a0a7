package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

var (
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
	pendingStyle   = color.New(color.FgYellow)
)

// DeploymentsRenderer renders deployment lists as tables
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders recorded deployments followed by pending units
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 && len(result.Pending) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"UNIT", "ADDRESS", "DEPLOYER", "DEPLOYED"})
	for _, record := range result.Deployments {
		t.AppendRow(table.Row{
			unitStyle.Sprint(record.Unit),
			addressStyle.Sprint(record.Address),
			shortAddress(record.Deployer),
			timestampStyle.Sprint(record.DeployedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}
	for _, unit := range result.Pending {
		t.AppendRow(table.Row{
			unitStyle.Sprint(unit),
			pendingStyle.Sprint("not deployed"),
			"",
			"",
		})
	}
	fmt.Fprintln(r.out, t.Render())

	fmt.Fprintf(r.out, "\n%d deployed, %d pending\n", len(result.Deployments), len(result.Pending))
	return nil
}

// newTable returns a borderless table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}
