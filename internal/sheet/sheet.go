// Package sheet appends one row per delivered letter to an outreach log:
// a Google spreadsheet, a local workbook or a Notion database.
package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp format written to spreadsheet rows.
const TimeLayout = "2006-01-02 15:04:05"

// Entry describes one sent letter.
type Entry struct {
	Domain    string
	SiteURL   string
	Recipient string
	SentAt    time.Time
}

// Sink is an append-only outreach log.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// RowConfig holds the static columns of a spreadsheet row.
type RowConfig struct {
	Label        string
	LinkText     string
	StatusValues []string
}

// DefaultRowConfig returns the columns used when nothing is configured.
func DefaultRowConfig() RowConfig {
	return RowConfig{
		Label:        "Candidature spontanée",
		LinkText:     "Lien",
		StatusValues: []string{"Non", "Non", "Non"},
	}
}

func (c RowConfig) withDefaults() RowConfig {
	d := DefaultRowConfig()
	if c.Label == "" {
		c.Label = d.Label
	}
	if c.LinkText == "" {
		c.LinkText = d.LinkText
	}
	if c.StatusValues == nil {
		c.StatusValues = d.StatusValues
	}
	return c
}

// Row renders e as spreadsheet cells:
// domain, timestamp, link formula, recipient, status columns, label.
func Row(e Entry, cfg RowConfig) []string {
	cfg = cfg.withDefaults()
	row := make([]string, 0, 5+len(cfg.StatusValues))
	row = append(row,
		e.Domain,
		e.SentAt.Format(TimeLayout),
		"="+Hyperlink(e.SiteURL, cfg.LinkText),
		e.Recipient,
	)
	row = append(row, cfg.StatusValues...)
	return append(row, cfg.Label)
}

// Hyperlink returns a HYPERLINK formula body (without the leading '=').
func Hyperlink(url, text string) string {
	return fmt.Sprintf("HYPERLINK(%s, %s)", quote(url), quote(text))
}

// quote makes a spreadsheet string literal; embedded quotes are doubled.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
