package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	filter   *URLFilter
	scrapers []Scraper
}

// NewChain creates a Chain. URLs rejected by filter are never fetched.
func NewChain(filter *URLFilter, scrapers ...Scraper) *Chain {
	return &Chain{
		filter:   filter,
		scrapers: scrapers,
	}
}

// Scrape tries each supporting scraper in order for targetURL.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if !c.filter.Allows(targetURL) {
		return nil, eris.Errorf("scrape: url excluded by filter: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// Fetch returns the visible text of targetURL, or "" when the URL is
// filtered out or every scraper fails. Failures are logged, never returned.
func (c *Chain) Fetch(ctx context.Context, targetURL string) string {
	if !c.filter.Allows(targetURL) {
		zap.L().Debug("scrape: skipping filtered url", zap.String("url", targetURL))
		return ""
	}
	result, err := c.Scrape(ctx, targetURL)
	if err != nil {
		zap.L().Warn("scrape: fetch failed",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return ""
	}
	return result.Page.Text
}
