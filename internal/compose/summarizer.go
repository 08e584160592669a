package compose

import (
	"context"

	"github.com/rotisserie/eris"
)

// Summarizer produces short company descriptions from site text.
type Summarizer struct {
	provider  Provider
	prompt    string
	maxTokens int
}

// NewSummarizer creates a Summarizer. An empty prompt uses
// DefaultSummaryPrompt; maxTokens <= 0 defaults to 300.
func NewSummarizer(provider Provider, prompt string, maxTokens int) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Summarizer{provider: provider, prompt: prompt, maxTokens: maxTokens}
}

// Summarize implements aggregate.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, domain, siteText string) (string, error) {
	prompt, err := SummaryPrompt(s.prompt, SummarySlots{Domain: domain, SiteText: siteText})
	if err != nil {
		return "", err
	}
	out, err := s.provider.Complete(ctx, Request{
		Prompt:    prompt,
		MaxTokens: s.maxTokens,
		Purpose:   "summary",
	})
	if err != nil {
		return "", eris.Wrapf(err, "compose: summary for %s", domain)
	}
	return out, nil
}
