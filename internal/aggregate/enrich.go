package aggregate

import (
	"context"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Fetcher returns the visible text of a page, or "" on failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Summarizer condenses site text into a short company description.
type Summarizer interface {
	Summarize(ctx context.Context, domain, siteText string) (string, error)
}

// Enricher attaches a site summary to each lead.
type Enricher struct {
	fetcher     Fetcher
	summarizer  Summarizer
	concurrency int
	maxChars    int
}

// EnrichOption configures an Enricher.
type EnrichOption func(*Enricher)

// WithConcurrency bounds the number of leads enriched at once.
func WithConcurrency(n int) EnrichOption {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithMaxChars truncates site text before summarizing. n <= 0 disables it.
func WithMaxChars(n int) EnrichOption {
	return func(e *Enricher) {
		e.maxChars = n
	}
}

// NewEnricher creates an Enricher processing one lead at a time with site
// text capped at 8000 characters.
func NewEnricher(fetcher Fetcher, summarizer Summarizer, opts ...EnrichOption) *Enricher {
	e := &Enricher{
		fetcher:     fetcher,
		summarizer:  summarizer,
		concurrency: 1,
		maxChars:    8000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich sets Info["site"] and Info["summary"] on each lead. A failure for
// one domain is logged and leaves that lead's Info empty; the others are
// unaffected and the slice order never changes.
func (e *Enricher) Enrich(ctx context.Context, leads []*model.Lead) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, lead := range leads {
		g.Go(func() error {
			info, err := e.enrichOne(gCtx, lead)
			if err != nil {
				zap.L().Warn("aggregate: enrichment failed",
					zap.String("domain", lead.Domain),
					zap.Error(err),
				)
				return nil
			}
			lead.Info = info
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, lead *model.Lead) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "aggregate: enrich")
	}

	site := lead.SiteURL()
	text := e.fetcher.Fetch(ctx, site)
	if text == "" {
		return nil, eris.Errorf("aggregate: no content at %s", site)
	}

	summary, err := e.summarizer.Summarize(ctx, lead.Domain, truncate(text, e.maxChars))
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: summarize")
	}
	if summary == "" {
		return nil, eris.New("aggregate: empty summary")
	}

	return map[string]string{
		model.InfoSite:    site,
		model.InfoSummary: summary,
	}, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
