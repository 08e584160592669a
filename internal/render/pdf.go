// Package render lays generated letters out as PDF documents.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Layout positions, in points on a US Letter page (612x792).
const (
	dateX      = 490.0
	dateY      = 19.0 // baseline, from the top edge
	bodyX      = 60.0
	bodyY      = 190.0
	bodyWidth  = 472.0
	lineHeight = 12.0
	margin     = 70.0
)

// PDFRenderer writes letter text over an optional one-page PDF template,
// stamping the current date in the top-right corner.
type PDFRenderer struct {
	templatePath string
	now          func() time.Time
	compress     bool
}

// Option configures a PDFRenderer.
type Option func(*PDFRenderer)

// WithTemplate draws every letter over page 1 of the PDF at path.
func WithTemplate(path string) Option {
	return func(r *PDFRenderer) {
		r.templatePath = path
	}
}

// WithClock overrides the date source.
func WithClock(now func() time.Time) Option {
	return func(r *PDFRenderer) {
		r.now = now
	}
}

// WithCompression toggles content stream compression.
func WithCompression(on bool) Option {
	return func(r *PDFRenderer) {
		r.compress = on
	}
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(opts ...Option) *PDFRenderer {
	r := &PDFRenderer{now: time.Now, compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes text to outputPath. Newlines in text start new lines; long
// lines are wrapped and justified.
func (r *PDFRenderer) Render(ctx context.Context, text, outputPath string) (err error) {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "render: cancelled")
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	if r.templatePath != "" {
		if err := r.drawTemplate(pdf); err != nil {
			return err
		}
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 10.5)
	pdf.Text(dateX, dateY, r.now().Format("02/01/2006"))

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(bodyX, bodyY)
	pdf.MultiCell(bodyWidth, lineHeight, tr(text), "", "J", false)

	if pdf.Err() {
		return eris.Wrap(pdf.Error(), "render: layout")
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "render: create output dir")
		}
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return eris.Wrapf(err, "render: write %s", outputPath)
	}

	zap.L().Debug("render: pdf written",
		zap.String("path", outputPath),
		zap.Int("pages", pdf.PageCount()),
	)
	return nil
}

// drawTemplate imports page 1 of the template. The importer panics on
// unreadable input, so that is turned into an error.
func (r *PDFRenderer) drawTemplate(pdf *fpdf.Fpdf) (err error) {
	if _, statErr := os.Stat(r.templatePath); statErr != nil {
		return eris.Wrapf(statErr, "render: template %s", r.templatePath)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = eris.Errorf("render: import template %s: %v", r.templatePath, fmt.Sprint(rec))
		}
	}()

	imp := gofpdi.NewImporter()
	tpl := imp.ImportPage(pdf, r.templatePath, 1, "/MediaBox")
	w, h := pdf.GetPageSize()
	imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
	return nil
}
