// Package collect gathers raw contact addresses from search results and the
// pages they link to.
package collect

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Searcher returns ranked results for a query. Results returned alongside
// an error are still used.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
}

// Fetcher returns the visible text of a page, or "" on any failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Extractor pulls addresses out of text.
type Extractor interface {
	Extract(text string) []string
}

// Collector runs a search and accumulates addresses in discovery order.
type Collector struct {
	query     string
	searcher  Searcher
	fetcher   Fetcher
	extractor Extractor
	observer  func(model.SearchResult, int)
}

// Option configures a Collector.
type Option func(*Collector)

// WithObserver registers fn, called after each processed result with the
// number of unique addresses collected so far.
func WithObserver(fn func(model.SearchResult, int)) Option {
	return func(c *Collector) {
		c.observer = fn
	}
}

// New creates a Collector for query.
func New(query string, searcher Searcher, fetcher Fetcher, extractor Extractor, opts ...Option) *Collector {
	c := &Collector{
		query:     query,
		searcher:  searcher,
		fetcher:   fetcher,
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns at most maxEmails unique addresses in the order they were
// first seen. maxEmails <= 0 means no cap. Search and fetch failures are
// logged and never abort collection.
func (c *Collector) Collect(ctx context.Context, maxResults, maxEmails int) []string {
	log := zap.L().With(zap.String("query", c.query))

	results, err := c.searcher.Search(ctx, c.query, maxResults)
	if err != nil {
		log.Warn("collect: search failed, using partial results",
			zap.Int("results", len(results)),
			zap.Error(err),
		)
	}
	log.Info("collect: search complete", zap.Int("results", len(results)))

	var emails []string
	seen := make(map[string]struct{})
	add := func(found []string) {
		for _, e := range found {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			emails = append(emails, e)
		}
	}

	for _, r := range results {
		if ctx.Err() != nil {
			log.Warn("collect: cancelled", zap.Int("emails", len(emails)))
			break
		}

		if r.Description != "" {
			add(c.extractor.Extract(r.Description))
		}
		if r.URL != "" {
			if text := c.fetcher.Fetch(ctx, r.URL); text != "" {
				add(c.extractor.Extract(text))
			}
		}

		log.Debug("collect: result processed",
			zap.String("url", r.URL),
			zap.Int("emails", len(emails)),
		)
		if c.observer != nil {
			c.observer(r, len(emails))
		}

		if maxEmails > 0 && len(emails) >= maxEmails {
			break
		}
	}

	if maxEmails > 0 && len(emails) > maxEmails {
		emails = emails[:maxEmails]
	}
	log.Info("collect: done", zap.Int("emails", len(emails)))
	return emails
}
