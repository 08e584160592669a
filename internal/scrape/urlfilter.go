package scrape

import (
	"net/url"
	"path"
	"strings"
)

// DefaultSkipHosts are sites that never expose contact addresses to an
// anonymous fetch.
var DefaultSkipHosts = []string{
	"linkedin.com", "facebook.com", "instagram.com", "twitter.com",
	"x.com", "youtube.com", "indeed.com",
}

// DefaultSkipPaths are glob patterns for documents that are not HTML.
var DefaultSkipPaths = []string{"/*.pdf", "/*.doc", "/*.docx"}

// URLFilter decides which search results are worth a page fetch.
type URLFilter struct {
	hosts    []string
	patterns []string
}

// NewURLFilter builds a filter from host suffixes and glob path patterns
// ("/blog/*", "/*.pdf"). nil slices fall back to the defaults; empty
// non-nil slices disable that check.
func NewURLFilter(hosts, patterns []string) *URLFilter {
	if hosts == nil {
		hosts = DefaultSkipHosts
	}
	if patterns == nil {
		patterns = DefaultSkipPaths
	}
	f := &URLFilter{}
	for _, h := range hosts {
		if h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www."); h != "" {
			f.hosts = append(f.hosts, h)
		}
	}
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			f.patterns = append(f.patterns, p)
		}
	}
	return f
}

// Allows reports whether rawURL may be fetched. Unparseable and non-HTTP
// URLs are rejected.
func (f *URLFilter) Allows(rawURL string) bool {
	if f == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range f.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return false
		}
	}

	p := strings.ToLower(u.Path)
	for _, pattern := range f.patterns {
		if matchSegmented(pattern, p) {
			return false
		}
	}
	return true
}

// matchSegmented is path.Match plus prefix matching for patterns ending in
// "/*", so "/blog/*" also covers "/blog/a/b". Extension patterns ("/*.pdf")
// match at any depth.
func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if strings.HasPrefix(pattern, "/*.") && !strings.ContainsAny(pattern[3:], "*?[/") {
		return strings.HasSuffix(urlPath, pattern[2:])
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}
	return false
}
