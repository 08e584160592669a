package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/aggregate"
	"github.com/sells-group/outreach-cli/internal/history"
	"github.com/sells-group/outreach-cli/internal/metrics"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Collector gathers candidate addresses.
type Collector interface {
	Collect(ctx context.Context, maxResults, maxEmails int) []string
}

// Enricher attaches site info to leads in place.
type Enricher interface {
	Enrich(ctx context.Context, leads []*model.Lead)
}

// Processor runs one lead through the per-lead stages.
type Processor interface {
	Process(ctx context.Context, lead *model.Lead) model.Outcome
}

// Batch wires collection, filtering and per-lead processing for one run.
// Enricher, History, Ledger and Metrics are optional.
type Batch struct {
	Query      string
	Collector  Collector
	Enricher   Enricher
	History    history.Source
	Exclusions history.Exclusions
	Processor  Processor
	Ledger     store.Store
	Metrics    *metrics.Recorder

	// MetricsTextfile, when set, receives the run's metrics on completion.
	MetricsTextfile string

	// HistoryRetry governs retries of the history load.
	HistoryRetry resilience.Policy

	Now func() time.Time
}

// BatchResult is everything a run produced.
type BatchResult struct {
	RunID       string
	Emails      []string
	Outcomes    []model.Outcome
	Interrupted bool
}

// Counts tallies the outcomes by status.
func (r *BatchResult) Counts() map[model.OutcomeStatus]int {
	return model.Tally(r.Outcomes)
}

// Run executes the batch. History is loaded before anything is sent and a
// failure there aborts the run. Leads are processed one at a time in
// discovery order; cancelling ctx stops before the next lead and returns
// the outcomes recorded so far.
func (b *Batch) Run(ctx context.Context, maxResults, maxEmails int) (*BatchResult, error) {
	now := b.Now
	if now == nil {
		now = time.Now
	}
	log := zap.L().With(zap.String("query", b.Query))

	hist := model.HistorySet{}
	if b.History != nil {
		retry := b.HistoryRetry
		if retry.OnRetry == nil {
			retry.OnRetry = resilience.LogRetry("history load")
		}
		h, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (model.HistorySet, error) {
			return history.Load(ctx, b.History)
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: history unavailable, refusing to send")
		}
		hist = h
	}

	res := &BatchResult{}
	run := b.startRun(ctx, log, now)
	if run != nil {
		res.RunID = run.ID
	}

	start := time.Now()
	res.Emails = b.Collector.Collect(ctx, maxResults, maxEmails)
	b.Metrics.Collected(len(res.Emails))
	b.Metrics.Stage("collect", time.Since(start).Seconds())

	set := aggregate.Aggregate(res.Emails)
	eligible, skipped := history.Filter(set, hist, b.Exclusions)
	b.Metrics.Eligible(len(eligible))
	for _, o := range skipped {
		res.Outcomes = append(res.Outcomes, b.record(ctx, log, res.RunID, o))
	}

	if b.Enricher != nil && len(eligible) > 0 {
		start = time.Now()
		b.Enricher.Enrich(ctx, eligible)
		b.Metrics.Stage("enrich", time.Since(start).Seconds())
	}

	for i, lead := range eligible {
		if ctx.Err() != nil {
			res.Interrupted = true
			log.Warn("pipeline: interrupted, remaining leads not processed",
				zap.Int("remaining", len(eligible)-i),
			)
			break
		}
		res.Outcomes = append(res.Outcomes, b.record(ctx, log, res.RunID, b.Processor.Process(ctx, lead)))
	}

	b.finishRun(log, run, res.Outcomes, now)
	b.Metrics.Finished(float64(now().Unix()))
	if err := b.Metrics.WriteTextfile(b.MetricsTextfile); err != nil {
		log.Warn("pipeline: write metrics textfile", zap.Error(err))
	}

	counts := res.Counts()
	log.Info("pipeline: run complete",
		zap.String("run_id", res.RunID),
		zap.Int("emails", len(res.Emails)),
		zap.Int("sent", counts[model.OutcomeSent]),
		zap.Int("failed", counts[model.OutcomeFailed]),
		zap.Bool("interrupted", res.Interrupted),
	)
	return res, nil
}

func (b *Batch) startRun(ctx context.Context, log *zap.Logger, now func() time.Time) *model.Run {
	if b.Ledger == nil {
		return nil
	}
	run, err := b.Ledger.CreateRun(ctx, b.Query)
	if err != nil {
		log.Warn("pipeline: create run, continuing without ledger", zap.Error(err))
		return nil
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = now().UTC()
	}
	return run
}

// finishRun uses a fresh context so an interrupted run is still closed out.
func (b *Batch) finishRun(log *zap.Logger, run *model.Run, outcomes []model.Outcome, now func() time.Time) {
	if run == nil {
		return
	}
	run.Finish(outcomes, now())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.Ledger.FinishRun(ctx, run); err != nil {
		log.Warn("pipeline: finish run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (b *Batch) record(ctx context.Context, log *zap.Logger, runID string, o model.Outcome) model.Outcome {
	o.RunID = runID
	b.Metrics.Outcome(o)
	if b.Ledger == nil || runID == "" {
		return o
	}
	if err := b.Ledger.SaveOutcome(context.WithoutCancel(ctx), &o); err != nil {
		log.Warn("pipeline: save outcome",
			zap.String("domain", o.Domain),
			zap.String("status", string(o.Status)),
			zap.Error(err),
		)
	}
	return o
}
