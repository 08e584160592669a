// Package compose builds prompts and asks a generative text provider for
// cover letters and company summaries.
package compose

import (
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
)

// DefaultSystemInstructions frames the letter request.
const DefaultSystemInstructions = "Tu rédiges des lettres de motivation professionnelles, sobres et personnalisées, en français. " +
	"Tu ne réponds qu'avec le corps de la lettre, sans formule d'en-tête ni signature."

// DefaultLetterPrompt is used when letter.prompt is not configured.
const DefaultLetterPrompt = `Rédige la suite d'une candidature spontanée.

Entreprise :
{{.CompanyInfo}}

Candidat :
{{.UserInfo}}

La lettre commence déjà par :
{{.FirstPart}}

Continue la lettre sans répéter ce début.`

// DefaultSummaryPrompt is used when enrich.prompt is not configured.
const DefaultSummaryPrompt = `Voici le texte du site {{.Domain}}.
Résume en trois phrases au plus ce que fait l'entreprise, son secteur et ce qui la distingue.

{{.SiteText}}`

// PromptSlots are the values available to letter prompt templates.
type PromptSlots struct {
	Domain      string
	CompanyInfo string
	UserInfo    string
	FirstPart   string
}

// SummarySlots are the values available to summary prompt templates.
type SummarySlots struct {
	Domain   string
	SiteText string
}

// legacyPlaceholders maps brace placeholders found in older prompt files to
// template actions.
var legacyPlaceholders = strings.NewReplacer(
	"{COMPANY_INFO}", "{{.CompanyInfo}}",
	"{USER_INFO}", "{{.UserInfo}}",
	"{FIRST_PART}", "{{.FirstPart}}",
	"{DOMAIN}", "{{.Domain}}",
	"{SITE_TEXT}", "{{.SiteText}}",
)

// LetterPrompt renders tmpl with slots. An empty tmpl uses DefaultLetterPrompt.
func LetterPrompt(tmpl string, slots PromptSlots) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultLetterPrompt
	}
	return render("letter", tmpl, slots)
}

// SummaryPrompt renders tmpl with slots. An empty tmpl uses DefaultSummaryPrompt.
func SummaryPrompt(tmpl string, slots SummarySlots) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultSummaryPrompt
	}
	return render("summary", tmpl, slots)
}

func render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(legacyPlaceholders.Replace(tmpl))
	if err != nil {
		return "", eris.Wrapf(err, "compose: parse %s prompt", name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", eris.Wrapf(err, "compose: render %s prompt", name)
	}
	return b.String(), nil
}
