package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
	Long:  "Commands for listing past runs and the outcome of every lead they touched.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openLedger(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show lead outcomes, for one run or across runs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openLedger(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.OutcomeFilter{}
		if len(args) == 1 {
			filter.RunID = args[0]
		}
		filter.Domain, _ = cmd.Flags().GetString("domain")
		status, _ := cmd.Flags().GetString("status")
		filter.Status = model.OutcomeStatus(status)
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		outcomes, err := st.ListOutcomes(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		if len(outcomes) == 0 {
			fmt.Fprintln(os.Stderr, "No outcomes found.")
			return nil
		}

		formatOutcomes(cmd.OutOrStdout(), outcomes)
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "max number of runs to display")

	runsShowCmd.Flags().String("domain", "", "filter by company domain")
	runsShowCmd.Flags().String("status", "", "filter by outcome (sent, skipped_history, skipped_blacklist, skipped_user_declined, failed)")
	runsShowCmd.Flags().Int("limit", 100, "max number of outcomes to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// openLedger opens the configured ledger. A disabled ledger is an error here
// since there is nothing to inspect.
func openLedger(cmd *cobra.Command) (store.Store, error) {
	st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open ledger")
	}
	if st == nil {
		return nil, eris.New("run ledger is disabled (store.driver=none)")
	}
	return st, nil
}

// formatRunsList writes a table of runs to out.
func formatRunsList(out io.Writer, runs []model.Run) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"ID", "Query", "Started", "Duration", "Sent", "Skipped", "Failed"})
	for _, r := range runs {
		dur := "running"
		if r.FinishedAt != nil {
			dur = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		tw.AppendRow(table.Row{
			truncateID(r.ID),
			r.Query,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			dur,
			r.Sent,
			r.Skipped,
			r.Failed,
		})
	}
	tw.Render()
}

// formatOutcomes writes a table of lead outcomes to out.
func formatOutcomes(out io.Writer, outcomes []model.Outcome) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Run", "Domain", "Recipient", "Status", "Note", "At"})
	for _, o := range outcomes {
		note := o.Reason
		if o.LogError != "" {
			note = "not logged: " + o.LogError
		}
		tw.AppendRow(table.Row{
			truncateID(o.RunID),
			o.Domain,
			o.Recipient,
			o.Status,
			note,
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	tw.Render()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
