package model

import "time"

// OutcomeStatus is the terminal state of one lead in a run.
type OutcomeStatus string

const (
	OutcomeSent                OutcomeStatus = "sent"
	OutcomeSkippedHistory      OutcomeStatus = "skipped_history"
	OutcomeSkippedBlacklist    OutcomeStatus = "skipped_blacklist"
	OutcomeSkippedUserDeclined OutcomeStatus = "skipped_user_declined"
	OutcomeFailed              OutcomeStatus = "failed"
)

// AllOutcomeStatuses lists every status in display order.
func AllOutcomeStatuses() []OutcomeStatus {
	return []OutcomeStatus{
		OutcomeSent,
		OutcomeSkippedHistory,
		OutcomeSkippedBlacklist,
		OutcomeSkippedUserDeclined,
		OutcomeFailed,
	}
}

// Outcome records what happened to a lead.
type Outcome struct {
	ID        string        `json:"id,omitempty"`
	RunID     string        `json:"run_id,omitempty"`
	Domain    string        `json:"domain"`
	Recipient string        `json:"recipient"`
	Status    OutcomeStatus `json:"status"`
	// Reason is the failure cause for failed outcomes, or an operational note.
	Reason string `json:"reason,omitempty"`
	// LogError is set when the message was sent but the log sink rejected the row.
	LogError  string    `json:"log_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOutcome creates an outcome for lead with the given status.
func NewOutcome(lead *Lead, status OutcomeStatus) Outcome {
	return Outcome{
		Domain:    lead.Domain,
		Recipient: lead.Primary(),
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

// Failed creates a failed outcome carrying reason.
func Failed(lead *Lead, reason string) Outcome {
	o := NewOutcome(lead, OutcomeFailed)
	o.Reason = reason
	return o
}

// IsSkip reports whether the status is one of the skip outcomes.
func (s OutcomeStatus) IsSkip() bool {
	switch s {
	case OutcomeSkippedHistory, OutcomeSkippedBlacklist, OutcomeSkippedUserDeclined:
		return true
	}
	return false
}

// Tally counts outcomes by status.
func Tally(outcomes []Outcome) map[OutcomeStatus]int {
	counts := make(map[OutcomeStatus]int, len(AllOutcomeStatuses()))
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}
