package interact

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestIsYes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"y", true},
		{"Y\n", true},
		{" yes ", true},
		{"o", true},
		{"OUI\r\n", true},
		{"", false},
		{"n", false},
		{"non", false},
		{"yep", false},
		{"ouais", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsYes(tt.in), "input %q", tt.in)
	}
}

func TestPrompt_Confirm(t *testing.T) {
	t.Parallel()

	lead := model.NewLead("acme.io", "contact@acme.io")
	lead.AddEmail("jobs@acme.io")
	lead.Info = map[string]string{model.InfoSummary: "Outils pour développeurs."}

	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("oui\nn\n"), &out)

	ok, err := p.Confirm(context.Background(), lead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm(context.Background(), lead)
	require.NoError(t, err)
	assert.False(t, ok)

	text := out.String()
	assert.Contains(t, strings.ToLower(text), "acme.io")
	assert.Contains(t, text, "contact@acme.io")
	assert.Contains(t, text, "jobs@acme.io")
	assert.Contains(t, text, "Outils pour développeurs.")
}

func TestPrompt_EOFDeclines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ok, err := NewPrompt(strings.NewReader(""), &out).Confirm(context.Background(), model.NewLead("x.com", "a@x.com"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, out.String(), "Autres")
}

func TestPrompt_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPrompt(strings.NewReader("y\n"), &bytes.Buffer{}).Confirm(ctx, model.NewLead("x.com", "a@x.com"))
	require.Error(t, err)
}

func TestBrowser_Preview(t *testing.T) {
	t.Parallel()

	var opened string
	b := &Browser{open: func(url string) error {
		opened = url
		return nil
	}}
	require.NoError(t, b.Preview(context.Background(), "https://www.acme.io"))
	assert.Equal(t, "https://www.acme.io", opened)

	failing := &Browser{open: func(string) error { return errors.New("no display") }}
	err := failing.Preview(context.Background(), "https://www.acme.io")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
}
