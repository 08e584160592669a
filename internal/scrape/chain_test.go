package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

type mockScraper struct {
	name     string
	supports bool
	result   *Result
	err      error
	calls    int
}

func (m *mockScraper) Name() string           { return m.name }
func (m *mockScraper) Supports(_ string) bool { return m.supports }
func (m *mockScraper) Scrape(_ context.Context, _ string) (*Result, error) {
	m.calls++
	return m.result, m.err
}

func page(source, text string) *Result {
	return &Result{Page: model.CrawledPage{URL: "https://acme.io", Text: text}, Source: source}
}

func TestChain_Scrape_FirstSuccess(t *testing.T) {
	t.Parallel()

	s1 := &mockScraper{name: "primary", supports: true, result: page("primary", "hello")}
	s2 := &mockScraper{name: "fallback", supports: true}

	result, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "primary", result.Source)
	assert.Zero(t, s2.calls)
}

func TestChain_Scrape_FallbackOnError(t *testing.T) {
	t.Parallel()

	s1 := &mockScraper{name: "primary", supports: true, err: errors.New("status 403")}
	s2 := &mockScraper{name: "fallback", supports: true, result: page("fallback", "hi")}

	result, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Source)
}

func TestChain_Scrape_AllFail(t *testing.T) {
	t.Parallel()

	s1 := &mockScraper{name: "s1", supports: true, err: errors.New("s1 error")}
	s2 := &mockScraper{name: "s2", supports: true, err: errors.New("s2 error")}

	result, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.io")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "all scrapers failed")
	assert.Contains(t, err.Error(), "s2 error")
}

func TestChain_Scrape_NoSupportingScraper(t *testing.T) {
	t.Parallel()

	s1 := &mockScraper{name: "s1", supports: false}
	_, err := NewChain(nil, s1).Scrape(context.Background(), "https://acme.io")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable scraper")
	assert.Zero(t, s1.calls)
}

func TestChain_Scrape_FilteredURL(t *testing.T) {
	t.Parallel()

	s1 := &mockScraper{name: "s1", supports: true, result: page("s1", "x")}
	chain := NewChain(NewURLFilter(nil, nil), s1)

	_, err := chain.Scrape(context.Background(), "https://www.linkedin.com/company/acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excluded")
	assert.Zero(t, s1.calls)
}

func TestChain_Fetch(t *testing.T) {
	t.Parallel()

	ok := &mockScraper{name: "ok", supports: true, result: page("ok", "jobs@acme.io")}
	assert.Equal(t, "jobs@acme.io", NewChain(nil, ok).Fetch(context.Background(), "https://acme.io"))

	bad := &mockScraper{name: "bad", supports: true, err: errors.New("timeout")}
	assert.Empty(t, NewChain(nil, bad).Fetch(context.Background(), "https://acme.io"))

	skipped := &mockScraper{name: "s", supports: true, result: page("s", "x")}
	assert.Empty(t, NewChain(NewURLFilter(nil, nil), skipped).Fetch(context.Background(), "https://acme.io/offre.pdf"))
	assert.Zero(t, skipped.calls)
}
