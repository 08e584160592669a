package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/aggregate"
	"github.com/sells-group/outreach-cli/internal/collect"
	"github.com/sells-group/outreach-cli/internal/compose"
	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/exclusion"
	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/history"
	"github.com/sells-group/outreach-cli/internal/interact"
	"github.com/sells-group/outreach-cli/internal/mail"
	"github.com/sells-group/outreach-cli/internal/metrics"
	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/render"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/scrape"
	"github.com/sells-group/outreach-cli/internal/sheet"
	"github.com/sells-group/outreach-cli/internal/store"
	anthropicpkg "github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/google"
	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/notion"
	"github.com/sells-group/outreach-cli/pkg/openai"
)

// newSearcher selects the lead discovery backend.
func newSearcher(c *config.Config, jc jina.Client) (collect.Searcher, error) {
	switch strings.ToLower(c.Search.Provider) {
	case config.SearchJina, "":
		return scrape.NewJinaSearch(jc), nil
	case config.SearchPlaces:
		var opts []google.Option
		if c.Search.Places.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(c.Search.Places.BaseURL))
		}
		gc := google.NewClient(c.Search.Places.Key, opts...)
		return scrape.NewPlacesSearch(gc, c.Search.Places.LanguageCode, c.Search.Places.RegionCode), nil
	default:
		return nil, eris.Errorf("unknown search provider %q", c.Search.Provider)
	}
}

// newProvider selects the text generation backend.
func newProvider(c *config.Config) (compose.Provider, error) {
	switch strings.ToLower(c.LLM.Provider) {
	case config.ProviderAnthropic:
		return compose.NewAnthropicProvider(anthropicpkg.NewClient(c.Anthropic.Key), c.Anthropic.Model), nil
	case config.ProviderOpenAI:
		client := openai.NewClient(c.OpenAI.Key,
			openai.WithBaseURL(c.OpenAI.BaseURL),
			openai.WithModel(c.OpenAI.Model),
		)
		return compose.NewOpenAIProvider(client, c.OpenAI.Model), nil
	default:
		return nil, eris.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
}

// newFetcher builds the page fetch chain: a rate-limited local fetch, then
// the Jina reader when the fallback is on.
func newFetcher(c *config.Config, jc jina.Client) *scrape.Chain {
	local := scrape.NewLocalScraper(
		scrape.WithTimeout(time.Duration(c.Fetch.TimeoutSecs)*time.Second),
		scrape.WithHostLimiter(scrape.NewHostLimiter(c.Fetch.RatePerHost, 1)),
	)
	filter := scrape.NewURLFilter(c.Fetch.SkipHosts, c.Fetch.SkipPaths)
	if c.Fetch.JinaFallback {
		return scrape.NewChain(filter, local, scrape.NewJinaAdapter(jc))
	}
	return scrape.NewChain(filter, local)
}

func rowConfig(c *config.Config) sheet.RowConfig {
	return sheet.RowConfig{
		Label:        c.Sheet.Label,
		LinkText:     c.Sheet.LinkText,
		StatusValues: c.Sheet.StatusValues,
	}
}

// newSink builds the outreach log for the configured driver. The returned
// source is non-nil when the sink can also list past recipients.
func newSink(ctx context.Context, c *config.Config) (pipeline.Sink, history.Source, error) {
	switch strings.ToLower(c.Sheet.Driver) {
	case config.SheetGoogle:
		gs, err := sheet.NewGoogleSheets(ctx, sheet.GoogleConfig{
			CredentialsPath: c.Sheet.Google.CredentialsPath,
			SpreadsheetID:   c.Sheet.Google.SpreadsheetID,
			Range:           c.Sheet.Google.Range,
		}, rowConfig(c))
		if err != nil {
			return nil, nil, err
		}
		return gs, nil, nil
	case config.SheetXLSX:
		wb := sheet.NewWorkbook(c.Sheet.XLSX.Path, rowConfig(c))
		return wb, wb, nil
	case config.SheetNotion:
		n := sheet.NewNotion(notion.NewClient(c.Sheet.Notion.Token), c.Sheet.Notion.DatabaseID, c.Sheet.Label)
		return n, n, nil
	default:
		return nil, nil, eris.Errorf("unsupported sheet driver: %s", c.Sheet.Driver)
	}
}

func newIMAPHistory(c *config.Config) *mail.IMAPHistory {
	username := c.Mail.Username
	if username == "" {
		username = c.Mail.From
	}
	return mail.NewIMAPHistory(mail.IMAPConfig{
		Host:     c.Mail.IMAPHost,
		Port:     c.Mail.IMAPPort,
		Username: username,
		Password: c.Mail.Password,
		TLS:      c.Mail.IMAPTLS,
		Mailbox:  c.Mail.SentMailbox,
	})
}

func newSMTPSender(c *config.Config) *mail.SMTPSender {
	username := c.Mail.Username
	if username == "" && c.Mail.Password != "" {
		username = c.Mail.From
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:        c.Mail.SMTPHost,
		Port:        c.Mail.SMTPPort,
		Username:    username,
		Password:    c.Mail.Password,
		From:        c.Mail.From,
		DisplayName: c.Mail.DisplayName,
		TLS:         strings.ToLower(c.Mail.SMTPTLS),
	})
}

// runOptions are the resolved switches for one run.
type runOptions struct {
	LogToSheet bool
	Confirm    bool
	Preview    bool
	MaxResults int
	MaxEmails  int
}

// batchDeps holds everything built for a run that must be closed after it.
type batchDeps struct {
	batch  *pipeline.Batch
	ledger store.Store
}

func (d *batchDeps) Close() {
	if d.ledger != nil {
		_ = d.ledger.Close()
	}
}

// buildBatch wires every component for a run from configuration.
func buildBatch(ctx context.Context, c *config.Config, ro runOptions) (*batchDeps, error) {
	provider, err := newProvider(c)
	if err != nil {
		return nil, err
	}

	jc := jina.NewClient(c.Jina.Key,
		jina.WithBaseURL(c.Jina.BaseURL),
		jina.WithSearchBaseURL(c.Jina.SearchBaseURL),
	)
	fetcher := newFetcher(c, jc)
	searcher, err := newSearcher(c, jc)
	if err != nil {
		return nil, err
	}
	collector := collect.New(c.Search.Query,
		searcher,
		fetcher,
		extract.New(c.Extract.TLDs, c.Extract.Blacklist),
	)

	excl, err := exclusion.Open(c.Exclusion.Path)
	if err != nil {
		return nil, err
	}

	sources := history.Sources{newIMAPHistory(c)}
	var sink pipeline.Sink
	if ro.LogToSheet {
		s, src, err := newSink(ctx, c)
		if err != nil {
			return nil, eris.Wrap(err, "init sheet")
		}
		sink = s
		if src != nil {
			sources = append(sources, src)
		}
	}

	rec, err := metrics.New()
	if err != nil {
		return nil, err
	}

	ledger, err := store.Open(ctx, c.Store.Driver, c.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open ledger")
	}
	if ledger != nil {
		// Mail sent through a relay that keeps no Sent copy is still known here.
		sources = append(sources, ledger)
	}

	deps := pipeline.Deps{
		Writer: compose.NewWriter(provider, compose.LetterConfig{
			Prompt:             c.Letter.Prompt,
			SystemInstructions: c.Letter.SystemInstructions,
			FirstPart:          c.Letter.FirstPart,
			UserInfo:           c.Letter.UserInfo,
			MaxTokens:          c.LLM.MaxTokens,
		}),
		Renderer:   render.NewPDFRenderer(render.WithTemplate(c.Render.TemplatePath)),
		Sender:     newSMTPSender(c),
		Sink:       sink,
		Confirmer:  interact.NewPrompt(os.Stdin, os.Stdout),
		Previewer:  interact.NewBrowser(),
		Exclusions: excl,
		Metrics:    rec,
		LogRetry:   retryPolicy(c),
	}
	opts := pipeline.Options{
		Confirm:    ro.Confirm,
		Preview:    ro.Preview,
		LogToSheet: ro.LogToSheet,
		OutputPath: c.Render.OutputPath,
		ResumePath: c.Mail.AttachmentPath,
		Subject:    c.Mail.Subject,
		Body:       c.Mail.Body,
	}

	b := &pipeline.Batch{
		Query:           c.Search.Query,
		Collector:       collector,
		History:         sources,
		Exclusions:      excl,
		Processor:       pipeline.New(deps, opts),
		Ledger:          ledger,
		Metrics:         rec,
		MetricsTextfile: c.Metrics.Textfile,
		HistoryRetry:    retryPolicy(c),
	}
	if c.Enrich.Enabled {
		b.Enricher = aggregate.NewEnricher(fetcher,
			compose.NewSummarizer(provider, c.Enrich.Prompt, 0),
			aggregate.WithConcurrency(c.Enrich.Concurrency),
			aggregate.WithMaxChars(c.Enrich.MaxChars),
		)
	}

	zap.L().Debug("batch wired",
		zap.String("search", c.Search.Provider),
		zap.String("llm", c.LLM.Provider),
		zap.String("sheet", c.Sheet.Driver),
		zap.String("store", c.Store.Driver),
		zap.Bool("jina_fallback", c.Fetch.JinaFallback),
	)
	return &batchDeps{batch: b, ledger: ledger}, nil
}

func retryPolicy(c *config.Config) resilience.Policy {
	return resilience.Policy{
		Attempts: c.Run.RetryAttempts,
		Backoff:  c.Run.RetryBackoff,
		Jitter:   0.2,
	}
}
