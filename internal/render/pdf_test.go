package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
}

func TestRender_WritesPDF(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "letters", "acme.io.pdf")
	r := NewPDFRenderer(WithClock(fixedClock), WithCompression(false))

	err := r.Render(context.Background(), "Madame, Monsieur,\n\nJe vous écris au sujet d'un poste.", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Contains(t, string(data), "07/03/2025")
}

func TestRender_LongTextPaginates(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "long.pdf")
	text := strings.Repeat("Une ligne de texte assez longue pour remplir la page. ", 600)

	require.NoError(t, NewPDFRenderer().Render(context.Background(), text, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRender_MissingTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "x.pdf")
	r := NewPDFRenderer(WithTemplate(filepath.Join(dir, "nope.pdf")))

	err := r.Render(context.Background(), "text", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render: template")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender_InvalidTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tpl := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(tpl, []byte("not a pdf"), 0o600))

	err := NewPDFRenderer(WithTemplate(tpl)).Render(context.Background(), "text", filepath.Join(dir, "x.pdf"))
	require.Error(t, err)
}

func TestRender_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPDFRenderer().Render(ctx, "text", filepath.Join(t.TempDir(), "x.pdf"))
	require.Error(t, err)
}
