package config

import (
	"fmt"
	"os"
	"strings"
)

// ConfigurationError lists every key a run needs but does not have.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "config: " + strings.Join(parts, "; ")
}

// RunMode is the subset of run switches that changes what must be configured.
type RunMode struct {
	LogToSheet bool
}

// Validate checks the keys a batch run needs. Sheet settings are only
// required when logging is on. It returns nil or a *ConfigurationError.
func (c *Config) Validate(mode RunMode) error {
	e := &ConfigurationError{}
	need := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			e.Missing = append(e.Missing, key)
		}
	}
	oneOf := func(key, val string, allowed ...string) {
		for _, a := range allowed {
			if strings.EqualFold(val, a) {
				return
			}
		}
		e.Invalid = append(e.Invalid, fmt.Sprintf("%s=%q (want %s)", key, val, strings.Join(allowed, "|")))
	}
	// readable flags a set path that does not name a regular file.
	readable := func(key, path string) {
		if strings.TrimSpace(path) == "" {
			return
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			e.Invalid = append(e.Invalid, fmt.Sprintf("%s=%q (file not found)", key, path))
		case info.IsDir():
			e.Invalid = append(e.Invalid, fmt.Sprintf("%s=%q (is a directory)", key, path))
		}
	}

	need("search.query", c.Search.Query)
	switch strings.ToLower(c.Search.Provider) {
	case SearchJina:
		need("jina.key", c.Jina.Key)
	case SearchPlaces:
		need("search.places.key", c.Search.Places.Key)
		if c.Fetch.JinaFallback {
			need("jina.key", c.Jina.Key)
		}
	default:
		oneOf("search.provider", c.Search.Provider, SearchJina, SearchPlaces)
	}
	need("mail.from", c.Mail.From)
	need("mail.smtp_host", c.Mail.SMTPHost)
	need("mail.imap_host", c.Mail.IMAPHost)
	need("mail.subject", c.Mail.Subject)
	need("mail.body", c.Mail.Body)
	need("mail.attachment_path", c.Mail.AttachmentPath)
	readable("mail.attachment_path", c.Mail.AttachmentPath)
	readable("render.template_path", c.Render.TemplatePath)
	need("exclusion.path", c.Exclusion.Path)
	oneOf("mail.smtp_tls", c.Mail.SMTPTLS, "none", "opportunistic", "mandatory")
	oneOf("store.driver", c.Store.Driver, "sqlite", "postgres", "none")

	switch strings.ToLower(c.LLM.Provider) {
	case ProviderAnthropic:
		need("anthropic.key", c.Anthropic.Key)
	case ProviderOpenAI:
		need("openai.key", c.OpenAI.Key)
	default:
		oneOf("llm.provider", c.LLM.Provider, ProviderAnthropic, ProviderOpenAI)
	}

	if mode.LogToSheet {
		switch strings.ToLower(c.Sheet.Driver) {
		case SheetGoogle:
			need("sheet.google.spreadsheet_id", c.Sheet.Google.SpreadsheetID)
		case SheetXLSX:
			need("sheet.xlsx.path", c.Sheet.XLSX.Path)
		case SheetNotion:
			need("sheet.notion.token", c.Sheet.Notion.Token)
			need("sheet.notion.database_id", c.Sheet.Notion.DatabaseID)
		default:
			oneOf("sheet.driver", c.Sheet.Driver, SheetGoogle, SheetXLSX, SheetNotion)
		}
	}

	if len(e.Missing) == 0 && len(e.Invalid) == 0 {
		return nil
	}
	return e
}
