// Package metrics counts run outcomes with Prometheus collectors and writes
// them to a node-exporter textfile after each batch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Recorder owns the batch collectors on a private registry.
type Recorder struct {
	reg *prometheus.Registry

	outcomes      *prometheus.CounterVec
	emailsFound   prometheus.Counter
	leadsEligible prometheus.Gauge
	stageDuration *prometheus.HistogramVec
	lastRun       prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() (*Recorder, error) {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_outcomes_total",
			Help: "Leads processed partitioned by outcome status.",
		}, []string{"status"}),
		emailsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outreach_emails_collected_total",
			Help: "Unique addresses collected from search results.",
		}),
		leadsEligible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_leads_eligible",
			Help: "Leads left after history and exclusion filtering in the last run.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_last_run_timestamp_seconds",
			Help: "Unix time the last batch finished.",
		}),
	}
	for _, c := range []prometheus.Collector{
		r.outcomes,
		r.emailsFound,
		r.leadsEligible,
		r.stageDuration,
		r.lastRun,
	} {
		if err := r.reg.Register(c); err != nil {
			return nil, eris.Wrap(err, "metrics: register collector")
		}
	}
	// One zero-valued series per status.
	for _, s := range model.AllOutcomeStatuses() {
		r.outcomes.WithLabelValues(string(s))
	}
	return r, nil
}

// Outcome counts one lead outcome. Safe on a nil Recorder.
func (r *Recorder) Outcome(o model.Outcome) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(string(o.Status)).Inc()
}

// Collected records the number of unique addresses found.
func (r *Recorder) Collected(n int) {
	if r == nil {
		return
	}
	r.emailsFound.Add(float64(n))
}

// Eligible records the number of leads left after filtering.
func (r *Recorder) Eligible(n int) {
	if r == nil {
		return
	}
	r.leadsEligible.Set(float64(n))
}

// Stage observes the duration of a pipeline stage in seconds.
func (r *Recorder) Stage(stage string, seconds float64) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// Finished stamps the completion time of a batch.
func (r *Recorder) Finished(unix float64) {
	if r == nil {
		return
	}
	r.lastRun.Set(unix)
}

// WriteTextfile writes every collector to path in the text exposition
// format. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return eris.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
