package compose

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// LetterConfig holds the static parts of every letter.
type LetterConfig struct {
	Prompt             string
	SystemInstructions string
	FirstPart          string
	UserInfo           string
	MaxTokens          int
}

// Writer generates cover letters for leads.
type Writer struct {
	provider Provider
	cfg      LetterConfig
}

// NewWriter creates a Writer. A zero MaxTokens defaults to 1000.
func NewWriter(provider Provider, cfg LetterConfig) *Writer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if strings.TrimSpace(cfg.SystemInstructions) == "" {
		cfg.SystemInstructions = DefaultSystemInstructions
	}
	return &Writer{provider: provider, cfg: cfg}
}

// Letter returns the configured opening, a blank line, then the generated
// continuation. With no opening configured only the continuation is returned.
func (w *Writer) Letter(ctx context.Context, lead *model.Lead) (string, error) {
	prompt, err := LetterPrompt(w.cfg.Prompt, PromptSlots{
		Domain:      lead.Domain,
		CompanyInfo: CompanyInfo(lead),
		UserInfo:    w.cfg.UserInfo,
		FirstPart:   w.cfg.FirstPart,
	})
	if err != nil {
		return "", err
	}

	reply, err := w.provider.Complete(ctx, Request{
		System:    w.cfg.SystemInstructions,
		Prompt:    prompt,
		MaxTokens: w.cfg.MaxTokens,
		Purpose:   "letter",
	})
	if err != nil {
		return "", eris.Wrapf(err, "compose: letter for %s", lead.Domain)
	}

	reply = strings.TrimSpace(reply)
	if w.cfg.FirstPart == "" {
		return reply, nil
	}
	return w.cfg.FirstPart + "\n\n" + reply, nil
}

// CompanyInfo describes a lead for prompts: its domain, site and, when
// enriched, the summary.
func CompanyInfo(lead *model.Lead) string {
	var b strings.Builder
	b.WriteString("Entreprise : ")
	b.WriteString(lead.Domain)
	if site := lead.SiteURL(); site != "" {
		b.WriteString("\nSite : ")
		b.WriteString(site)
	}
	if s := lead.Summary(); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}
	return b.String()
}
