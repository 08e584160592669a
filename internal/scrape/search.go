package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/jina"
)

// JinaSearch adapts the Jina search API to a ranked result source.
type JinaSearch struct {
	client jina.Client
	opts   []jina.SearchOption
}

// NewJinaSearch creates a JinaSearch. opts are applied to every query.
func NewJinaSearch(client jina.Client, opts ...jina.SearchOption) *JinaSearch {
	return &JinaSearch{client: client, opts: opts}
}

// Search runs query and returns at most limit results in rank order.
// limit <= 0 returns everything the provider sent.
func (s *JinaSearch) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	resp, err := s.client.Search(ctx, query, s.opts...)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: search")
	}

	out := make([]model.SearchResult, 0, len(resp.Data))
	for _, r := range resp.Data {
		if limit > 0 && len(out) >= limit {
			break
		}
		desc := r.Description
		if desc == "" {
			desc = r.Content
		}
		out = append(out, model.SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Description: desc,
		})
	}
	return out, nil
}
