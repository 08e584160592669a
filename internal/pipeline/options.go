package pipeline

import "strings"

// DefaultOutputPath is where the letter PDF is written when nothing else is
// configured. Every lead overwrites it.
const DefaultOutputPath = "lettre_motivation.pdf"

// Options are the run-mode switches and message settings, fixed for a batch.
type Options struct {
	Confirm    bool
	Preview    bool
	LogToSheet bool

	// OutputPath may contain {domain} to keep one PDF per lead.
	OutputPath string
	ResumePath string
	Subject    string
	Body       string
}

func (o Options) outputPath(domain string) string {
	path := o.OutputPath
	if path == "" {
		path = DefaultOutputPath
	}
	return strings.ReplaceAll(path, "{domain}", domain)
}

func (o Options) attachments(letterPath string) []string {
	if o.ResumePath == "" {
		return []string{letterPath}
	}
	return []string{o.ResumePath, letterPath}
}
