package model

// SearchResult is a single ranked hit from the search provider.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CrawledPage is a fetched page reduced to visible text.
type CrawledPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	StatusCode int    `json:"status_code"`
}
