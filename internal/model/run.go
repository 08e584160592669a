package model

import "time"

// Run is one invocation of the outreach batch.
type Run struct {
	ID         string     `json:"id"`
	Query      string     `json:"query"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Sent       int        `json:"sent"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// Finish stamps the run with the tally of outcomes.
func (r *Run) Finish(outcomes []Outcome, at time.Time) {
	r.Sent, r.Skipped, r.Failed = 0, 0, 0
	for status, n := range Tally(outcomes) {
		switch {
		case status == OutcomeSent:
			r.Sent += n
		case status == OutcomeFailed:
			r.Failed += n
		case status.IsSkip():
			r.Skipped += n
		}
	}
	at = at.UTC()
	r.FinishedAt = &at
}
