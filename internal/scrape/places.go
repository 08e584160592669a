package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/google"
)

// maxPlacesPages bounds pagination; Places stops issuing tokens after 60 results.
const maxPlacesPages = 3

// PlacesSearch adapts Google Places Text Search to a ranked result source.
// Each result is the website of a matching business; places without a
// website are dropped.
type PlacesSearch struct {
	client   google.Client
	language string
	region   string
}

// NewPlacesSearch creates a PlacesSearch.
func NewPlacesSearch(client google.Client, language, region string) *PlacesSearch {
	return &PlacesSearch{client: client, language: language, region: region}
}

// Search runs query and returns at most limit results in rank order.
// A failure after the first page keeps what was already gathered.
func (s *PlacesSearch) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	var out []model.SearchResult
	token := ""
	for page := 0; page < maxPlacesPages; page++ {
		size := google.MaxPageSize
		if limit > 0 && limit-len(out) < size {
			size = limit - len(out)
		}
		resp, err := s.client.TextSearch(ctx, google.TextSearchRequest{
			TextQuery:    query,
			LanguageCode: s.language,
			RegionCode:   s.region,
			PageSize:     size,
			PageToken:    token,
		})
		if err != nil {
			if page == 0 {
				return nil, eris.Wrap(err, "scrape: places search")
			}
			break
		}

		for _, p := range resp.Places {
			if strings.TrimSpace(p.WebsiteURI) == "" {
				continue
			}
			out = append(out, model.SearchResult{
				URL:         p.WebsiteURI,
				Title:       p.DisplayName.Text,
				Description: p.FormattedAddress,
			})
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		token = resp.NextPageToken
		if token == "" {
			break
		}
	}
	return out, nil
}
