package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status OutcomeStatus
		want   string
		skip   bool
	}{
		{OutcomeSent, "sent", false},
		{OutcomeSkippedHistory, "skipped_history", true},
		{OutcomeSkippedBlacklist, "skipped_blacklist", true},
		{OutcomeSkippedUserDeclined, "skipped_user_declined", true},
		{OutcomeFailed, "failed", false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
			assert.Equal(t, tt.skip, tt.status.IsSkip())
		})
	}
}

func TestFailedOutcome(t *testing.T) {
	t.Parallel()

	l := NewLead("bar.com", "hr@bar.com")
	o := Failed(l, "send: connection refused")
	assert.Equal(t, OutcomeFailed, o.Status)
	assert.Equal(t, "bar.com", o.Domain)
	assert.Equal(t, "hr@bar.com", o.Recipient)
	assert.Equal(t, "send: connection refused", o.Reason)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestTally(t *testing.T) {
	t.Parallel()

	l := NewLead("a.com", "x@a.com")
	counts := Tally([]Outcome{
		NewOutcome(l, OutcomeSent),
		NewOutcome(l, OutcomeSent),
		Failed(l, "boom"),
	})
	assert.Equal(t, 2, counts[OutcomeSent])
	assert.Equal(t, 1, counts[OutcomeFailed])
	assert.Zero(t, counts[OutcomeSkippedHistory])
}
