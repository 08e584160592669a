package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/exclusion"
)

var exclusionsCmd = &cobra.Command{
	Use:     "exclusions",
	Aliases: []string{"blacklist"},
	Short:   "Inspect and edit the exclusion record",
	Long:    "Addresses and domains in the exclusion record are never contacted. Declining a company at the prompt adds it here.",
}

var exclusionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List excluded addresses and domains",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := exclusion.Open(cfg.Exclusion.Path)
		if err != nil {
			return err
		}
		formatExclusions(cmd.OutOrStdout(), st.Record())
		return nil
	},
}

var exclusionsAddCmd = &cobra.Command{
	Use:   "add <address-or-domain>...",
	Short: "Exclude addresses or domains",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := exclusion.Open(cfg.Exclusion.Path)
		if err != nil {
			return err
		}
		for _, v := range args {
			if strings.Contains(v, "@") {
				st.Add(v, "")
			} else {
				st.Add("", v)
			}
		}
		if err := st.Persist(); err != nil {
			return eris.Wrap(err, "exclusions add")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Excluded %d value(s).\n", len(args))
		return nil
	},
}

var exclusionsRemoveCmd = &cobra.Command{
	Use:   "remove <address-or-domain>...",
	Short: "Remove addresses or domains from the exclusion record",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := exclusion.Open(cfg.Exclusion.Path)
		if err != nil {
			return err
		}
		removed := 0
		for _, v := range args {
			if st.Remove(v) {
				removed++
			}
		}
		if err := st.Persist(); err != nil {
			return eris.Wrap(err, "exclusions remove")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d of %d value(s).\n", removed, len(args))
		return nil
	},
}

func init() {
	exclusionsCmd.AddCommand(exclusionsListCmd)
	exclusionsCmd.AddCommand(exclusionsAddCmd)
	exclusionsCmd.AddCommand(exclusionsRemoveCmd)
	rootCmd.AddCommand(exclusionsCmd)
}

// formatExclusions writes the record as a two-column table.
func formatExclusions(out io.Writer, rec exclusion.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Type", "Value"})
	for _, e := range rec.Emails {
		tw.AppendRow(table.Row{"email", e})
	}
	for _, d := range rec.Domains {
		tw.AppendRow(table.Row{"domain", d})
	}
	tw.Render()
}
