// Package pipeline drives each eligible lead through confirmation, letter
// generation, rendering, delivery and logging, and runs whole batches.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/mail"
	"github.com/sells-group/outreach-cli/internal/metrics"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/sheet"
)

// LetterWriter generates the letter text for a lead.
type LetterWriter interface {
	Letter(ctx context.Context, lead *model.Lead) (string, error)
}

// Renderer writes letter text to a document at outputPath.
type Renderer interface {
	Render(ctx context.Context, text, outputPath string) error
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Sink records a delivered letter.
type Sink interface {
	Append(ctx context.Context, e sheet.Entry) error
}

// Confirmer asks the operator whether to contact a lead.
type Confirmer interface {
	Confirm(ctx context.Context, lead *model.Lead) (bool, error)
}

// Previewer shows a lead's site to the operator.
type Previewer interface {
	Preview(ctx context.Context, url string) error
}

// ExclusionWriter records declined leads so they are never offered again.
type ExclusionWriter interface {
	Add(email, domain string)
	Persist() error
}

// Deps are the collaborators of a Pipeline. Sink, Confirmer, Previewer and
// Metrics may be nil when the matching option is off.
type Deps struct {
	Writer     LetterWriter
	Renderer   Renderer
	Sender     Sender
	Sink       Sink
	Confirmer  Confirmer
	Previewer  Previewer
	Exclusions ExclusionWriter
	Metrics    *metrics.Recorder
	Now        func() time.Time

	// LogRetry governs retries of the log append. Sending is never retried.
	LogRetry resilience.Policy
}

// Pipeline processes one lead at a time.
type Pipeline struct {
	deps Deps
	opts Options
}

// New creates a Pipeline.
func New(deps Deps, opts Options) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{deps: deps, opts: opts}
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Process runs lead through every stage and reports how it ended. Errors
// and panics are turned into a failed outcome; nothing escapes.
func (p *Pipeline) Process(ctx context.Context, lead *model.Lead) (out model.Outcome) {
	log := zap.L().With(zap.String("domain", lead.Domain), zap.String("recipient", lead.Primary()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: panic while processing lead", zap.Any("panic", r), zap.Stack("stack"))
			out = model.Failed(lead, fmt.Sprintf("panic: %v", r))
		}
	}()

	if p.opts.Preview && p.deps.Previewer != nil {
		if err := p.deps.Previewer.Preview(ctx, lead.SiteURL()); err != nil {
			log.Warn("pipeline: preview failed", zap.Error(err))
		}
	}

	if p.opts.Confirm {
		ok, err := p.confirm(ctx, lead)
		if err != nil {
			return p.fail(log, lead, &StageError{Stage: StageConfirm, Domain: lead.Domain, Err: err})
		}
		if !ok {
			return p.decline(log, lead)
		}
	}

	var text string
	if err := p.stage(StageGenerate, func() (err error) {
		text, err = p.deps.Writer.Letter(ctx, lead)
		return err
	}); err != nil {
		return p.fail(log, lead, &StageError{Stage: StageGenerate, Domain: lead.Domain, Err: err})
	}

	outputPath := p.opts.outputPath(lead.Domain)
	if err := p.stage(StageRender, func() error {
		return p.deps.Renderer.Render(ctx, text, outputPath)
	}); err != nil {
		return p.fail(log, lead, &StageError{Stage: StageRender, Domain: lead.Domain, Err: err})
	}

	msg := mail.Message{
		To:          lead.Primary(),
		Subject:     p.opts.Subject,
		Body:        p.opts.Body,
		Attachments: p.opts.attachments(outputPath),
	}
	if err := p.stage(StageSend, func() error {
		return p.deps.Sender.Send(ctx, msg)
	}); err != nil {
		return p.fail(log, lead, &StageError{Stage: StageSend, Domain: lead.Domain, Err: err})
	}

	out = model.NewOutcome(lead, model.OutcomeSent)
	out.CreatedAt = p.deps.Now().UTC()
	log.Info("pipeline: letter sent")

	if p.opts.LogToSheet && p.deps.Sink != nil {
		entry := sheet.Entry{
			Domain:    lead.Domain,
			SiteURL:   lead.SiteURL(),
			Recipient: lead.Primary(),
			SentAt:    p.deps.Now(),
		}
		retry := p.deps.LogRetry
		if retry.OnRetry == nil {
			retry.OnRetry = resilience.LogRetry("log append", zap.String("domain", lead.Domain))
		}
		if err := p.stage(StageLog, func() error {
			return resilience.Do(ctx, retry, func(ctx context.Context) error {
				return p.deps.Sink.Append(ctx, entry)
			})
		}); err != nil {
			out.LogError = err.Error()
			log.Error("pipeline: sent but not logged, add the row by hand", zap.Error(err))
		}
	}
	return out
}

func (p *Pipeline) confirm(ctx context.Context, lead *model.Lead) (bool, error) {
	if p.deps.Confirmer == nil {
		return false, eris.New("no confirmer configured")
	}
	return p.deps.Confirmer.Confirm(ctx, lead)
}

// decline excludes the lead's primary contact and domain and persists the
// record before returning.
func (p *Pipeline) decline(log *zap.Logger, lead *model.Lead) model.Outcome {
	out := model.NewOutcome(lead, model.OutcomeSkippedUserDeclined)
	if p.deps.Exclusions == nil {
		out.Reason = "no exclusion store"
		log.Warn("pipeline: declined lead not excluded, no exclusion store")
		return out
	}
	p.deps.Exclusions.Add(lead.Primary(), lead.Domain)
	if err := p.deps.Exclusions.Persist(); err != nil {
		out.Reason = "exclusion not persisted: " + err.Error()
		log.Error("pipeline: persist exclusions", zap.Error(err))
		return out
	}
	log.Info("pipeline: lead declined and excluded")
	return out
}

func (p *Pipeline) fail(log *zap.Logger, lead *model.Lead, err *StageError) model.Outcome {
	log.Error("pipeline: lead failed", zap.String("stage", string(err.Stage)), zap.Error(err.Err))
	out := model.Failed(lead, err.Error())
	out.CreatedAt = p.deps.Now().UTC()
	return out
}

// stage times fn and records the duration.
func (p *Pipeline) stage(name Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	p.deps.Metrics.Stage(string(name), time.Since(start).Seconds())
	return err
}
