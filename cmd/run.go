package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect leads and send applications",
	Long:  "Searches for the configured query, extracts contact addresses, skips anyone already contacted or excluded, and sends each remaining company a cover letter.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ro := resolveRunOptions(cmd, cfg)
		if err := cfg.Validate(config.RunMode{LogToSheet: ro.LogToSheet}); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps, err := buildBatch(ctx, cfg, ro)
		if err != nil {
			return err
		}
		defer deps.Close()

		zap.L().Info("starting run",
			zap.String("query", cfg.Search.Query),
			zap.Bool("confirm", ro.Confirm),
			zap.Bool("preview", ro.Preview),
			zap.Bool("log_to_sheet", ro.LogToSheet),
		)

		res, err := deps.batch.Run(ctx, ro.MaxResults, ro.MaxEmails)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		pipeline.WriteSummary(cmd.OutOrStdout(), res)
		if res.Interrupted {
			return eris.New("run interrupted")
		}
		return nil
	},
}

// resolveRunOptions applies flags over the run.* and search.* defaults.
func resolveRunOptions(cmd *cobra.Command, c *config.Config) runOptions {
	ro := runOptions{
		LogToSheet: c.Run.LogToSheet,
		Confirm:    c.Run.Confirm,
		Preview:    c.Run.Preview,
		MaxResults: c.Search.MaxResults,
		MaxEmails:  c.Search.MaxEmails,
	}
	flags := cmd.Flags()
	if flags.Changed("log-sheet") {
		ro.LogToSheet, _ = flags.GetBool("log-sheet")
	}
	if flags.Changed("confirm") {
		ro.Confirm, _ = flags.GetBool("confirm")
	}
	if flags.Changed("preview") {
		ro.Preview, _ = flags.GetBool("preview")
	}
	if flags.Changed("max-results") {
		ro.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("max-emails") {
		ro.MaxEmails, _ = flags.GetInt("max-emails")
	}
	return ro
}

func init() {
	runCmd.Flags().Bool("log-sheet", false, "append a row to the outreach log for each letter sent (default from run.log_to_sheet)")
	runCmd.Flags().Bool("confirm", true, "ask before contacting each company (default from run.confirm)")
	runCmd.Flags().Bool("preview", false, "open each company's site before asking (default from run.preview)")
	runCmd.Flags().Int("max-results", 50, "search results to visit (default from search.max_results)")
	runCmd.Flags().Int("max-emails", 50, "stop collecting after this many addresses, 0 for no cap (default from search.max_emails)")
	rootCmd.AddCommand(runCmd)
}
