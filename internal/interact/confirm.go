// Package interact holds the operator-facing confirm prompt and site preview.
package interact

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Prompt asks the operator to confirm each lead on a line-oriented terminal.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading answers from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm shows the lead and reads one answer. Only y, yes, o or oui
// (any case) confirm; anything else, including end of input, declines.
func (p *Prompt) Confirm(ctx context.Context, lead *model.Lead) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, eris.Wrap(err, "interact: confirm cancelled")
	}

	fmt.Fprintf(p.out, "\n%s\n", title(lead.Domain))
	fmt.Fprintf(p.out, "  Contact : %s\n", lead.Primary())
	if others := lead.Emails[min(1, len(lead.Emails)):]; len(others) > 0 {
		fmt.Fprintf(p.out, "  Autres  : %s\n", strings.Join(others, ", "))
	}
	if s := lead.Summary(); s != "" {
		fmt.Fprintf(p.out, "  Résumé  : %s\n", s)
	}
	fmt.Fprint(p.out, "Envoyer la candidature ? [o/N] ")

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, eris.Wrap(err, "interact: read answer")
	}
	return IsYes(line), nil
}

// IsYes reports whether answer is an explicit yes.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}

func title(domain string) string {
	return cases.Title(language.French).String(domain)
}

// Browser opens lead sites in the default web browser.
type Browser struct {
	open func(url string) error
}

// NewBrowser creates a Browser previewer.
func NewBrowser() *Browser {
	return &Browser{open: browser.OpenURL}
}

// Preview opens url.
func (b *Browser) Preview(_ context.Context, url string) error {
	if err := b.open(url); err != nil {
		return eris.Wrapf(err, "interact: open %s", url)
	}
	return nil
}
