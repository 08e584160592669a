package scrape

import (
	"bytes"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// blockTags start a new line in the visible text. Everything else is inline
// and joins its neighbours with no separator, so an address split across
// inline markup (info<span>@</span>acme.io) stays whole.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// VisibleText parses an HTML document and returns its title and the text a
// reader would see, one block element per line. Targets of mailto: links
// are appended since contact pages often only expose the address there.
func VisibleText(body []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", eris.Wrap(err, "scrape: parse html")
	}

	title = collapse(doc.Find("title").First().Text())
	doc.Find("head, script, style, noscript, template, svg").Remove()

	var raw strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			raw.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockTags[n.Data] {
				raw.WriteByte('\n')
				defer raw.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Selection.Nodes {
		walk(n)
	}

	var b strings.Builder
	for _, line := range strings.Split(raw.String(), "\n") {
		if t := collapse(line); t != "" {
			b.WriteString(t)
			b.WriteByte('\n')
		}
	}

	doc.Find(`a[href^="mailto:"], a[href^="MAILTO:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := href[len("mailto:"):]
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if addr = strings.TrimSpace(addr); addr != "" {
			b.WriteString(addr)
			b.WriteByte('\n')
		}
	})

	return title, strings.TrimSpace(b.String()), nil
}

// DecodeBody converts body to UTF-8 using the charset declared in the
// Content-Type header. Unknown or missing charsets leave body unchanged.
func DecodeBody(contentType string, body []byte) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	cs := strings.TrimSpace(params["charset"])
	if cs == "" || strings.EqualFold(cs, "utf-8") || strings.EqualFold(cs, "utf8") {
		return body
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
