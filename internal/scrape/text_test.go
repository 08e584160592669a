package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/extract"
)

func TestVisibleText_SeparatesNodes(t *testing.T) {
	t.Parallel()

	title, text, err := VisibleText([]byte(`<html><head><title> Acme
  Careers </title></head><body><div>info@acme.io</div><div>Phone</div>
<noscript>enable js</noscript></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Acme Careers", title)
	assert.Equal(t, "info@acme.io\nPhone", text)
}

func TestVisibleText_InlineMarkupJoins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"split by span", `<p>info<span>@</span>acme.io</p>`, "info@acme.io"},
		{"tld in bold", `<p>Write to info@acme.<b>io</b></p>`, "Write to info@acme.io"},
		{"inline spacing kept", `<p>Call <a href="/c">us</a> today</p>`, "Call us today"},
		{"br breaks the line", `<p>rh@acme.io<br>Lyon</p>`, "rh@acme.io\nLyon"},
		{"cells on their own lines", `<table><tr><td>a@acme.io</td><td>b@bar.com</td></tr></table>`, "a@acme.io\nb@bar.com"},
		{"list items", `<ul><li>One</li><li>Two</li></ul>`, "One\nTwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, text, err := VisibleText([]byte("<html><body>" + tt.html + "</body></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestVisibleText_FeedsExtractor(t *testing.T) {
	t.Parallel()

	_, text, err := VisibleText([]byte(`<body><p>info<span>@</span>acme.io</p><div>Écrire à sales@acme.<b>io</b></div></body>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"info@acme.io", "sales@acme.io"}, extract.Extract(text, nil))
}

func TestVisibleText_MailtoTargets(t *testing.T) {
	t.Parallel()

	_, text, err := VisibleText([]byte(`<body><a href="mailto:rh@acme.io?subject=Hi">Nous écrire</a></body>`))
	require.NoError(t, err)
	assert.Contains(t, text, "Nous écrire")
	assert.Contains(t, text, "rh@acme.io")
	assert.NotContains(t, text, "subject")
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	latin1 := []byte("caf\xe9")
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{"no charset", "text/html", []byte("plain"), "plain"},
		{"utf-8", "text/html; charset=UTF-8", []byte("café"), "café"},
		{"latin-1", "text/html; charset=ISO-8859-1", latin1, "café"},
		{"windows-1252", "text/html; charset=windows-1252", latin1, "café"},
		{"unknown charset", "text/html; charset=klingon", []byte("raw"), "raw"},
		{"bad header", ";;;", []byte("raw"), "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(DecodeBody(tt.contentType, tt.body)))
		})
	}
}
