// Package extract pulls contact email addresses out of free text.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultTLDs is the top-level-domain allow-list used when none is configured.
var DefaultTLDs = []string{
	"com", "fr", "io", "net", "org", "eu", "co", "dev", "ai", "app",
	"tech", "info", "biz", "be", "ch", "de", "uk", "ca", "us",
}

var localPartRe = regexp.MustCompile(`^[a-z0-9._]+$`)

// Extractor finds well-formed, non-blacklisted addresses in text.
// It is safe for concurrent use.
type Extractor struct {
	re        *regexp.Regexp
	full      *regexp.Regexp
	blacklist *regexp.Regexp
}

// New builds an Extractor for the given TLD allow-list and blacklist
// substrings. An empty tlds slice falls back to DefaultTLDs.
func New(tlds, blacklist []string) *Extractor {
	re := addressRegexp(tlds)
	return &Extractor{
		re:        re,
		full:      regexp.MustCompile(`^(?:` + re.String() + `)$`),
		blacklist: blacklistRegexp(blacklist),
	}
}

// Extract is a convenience wrapper using DefaultTLDs.
func Extract(text string, blacklist []string) []string {
	return New(nil, blacklist).Extract(text)
}

// Extract returns the addresses found in text, deduplicated, in order of
// first occurrence. The domain part is lowercased; the local part must
// already be lowercase alphanumerics, '.' or '_'.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, loc := range e.re.FindAllStringIndex(text, -1) {
		end, ok := e.hostEnd(text, loc[0], loc[1])
		if !ok {
			continue
		}
		addr, ok := e.accept(text[loc[0]:end])
		if !ok {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

func (e *Extractor) accept(match string) (string, bool) {
	at := strings.LastIndexByte(match, '@')
	if at <= 0 {
		return "", false
	}
	local, domain := match[:at], strings.ToLower(match[at+1:])
	if !localPartRe.MatchString(local) {
		return "", false
	}
	addr := local + "@" + domain
	if e.blacklist != nil && e.blacklist.MatchString(addr) {
		return "", false
	}
	return addr, true
}

// hostEnd returns where the address matched at [start, end) really ends.
// A match that runs into a sentence (info@acme.io.Contact matching up to
// ".Co") is cut back to the last label boundary that still ends on an
// allowed TLD. It reports false when no such boundary exists.
func (e *Extractor) hostEnd(text string, start, end int) (int, bool) {
	if !continuesHost(text, end) {
		return end, true
	}
	at := strings.LastIndexByte(text[start:end], '@') + start
	for i := end - 1; i > at; i-- {
		if text[i] != '.' {
			continue
		}
		if e.full.MatchString(text[start:i]) && !continuesHost(text, i) {
			return i, true
		}
	}
	return 0, false
}

// continuesHost reports whether the hostname keeps going past end, which
// means the regexp stopped on an allowed TLD inside a longer name
// (x.com.au, x.community). A dot followed by an uppercase letter starts a
// new sentence, not a label.
func continuesHost(text string, end int) bool {
	if end >= len(text) {
		return false
	}
	c := text[end]
	if isHostChar(c) {
		return true
	}
	return c == '.' && end+1 < len(text) && isLabelStart(text[end+1])
}

func isHostChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

func isLabelStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func addressRegexp(tlds []string) *regexp.Regexp {
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}
	clean := make([]string, 0, len(tlds))
	for _, t := range tlds {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t != "" {
			clean = append(clean, regexp.QuoteMeta(t))
		}
	}
	// Longest first so "com" wins over "co".
	sort.SliceStable(clean, func(i, j int) bool { return len(clean[i]) > len(clean[j]) })
	return regexp.MustCompile(`(?i)[a-z0-9._%+-]+@(?:[a-z0-9-]+\.)+(?:` + strings.Join(clean, "|") + `)`)
}

func blacklistRegexp(patterns []string) *regexp.Regexp {
	quoted := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}
