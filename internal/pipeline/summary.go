package pipeline

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sells-group/outreach-cli/internal/model"
)

// WriteSummary prints one row per outcome followed by the per-status totals.
func WriteSummary(w io.Writer, res *BatchResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Domain", "Recipient", "Status", "Note"})
	for _, o := range res.Outcomes {
		note := o.Reason
		if o.LogError != "" {
			note = "not logged: " + o.LogError
		}
		tw.AppendRow(table.Row{o.Domain, o.Recipient, o.Status, note})
	}
	tw.Render()

	counts := res.Counts()
	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.AppendHeader(table.Row{"Status", "Leads"})
	for _, s := range model.AllOutcomeStatuses() {
		totals.AppendRow(table.Row{s, counts[s]})
	}
	totals.AppendFooter(table.Row{"emails collected", len(res.Emails)})
	totals.Render()
}
