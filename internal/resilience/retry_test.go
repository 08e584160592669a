package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

var errThrottled = &googleapi.Error{Code: 429, Message: "quota exceeded"}

func fast(attempts int) Policy {
	return Policy{Attempts: attempts, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{}, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransient(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	p := fast(3)
	p.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		if calls < 3 {
			return errThrottled
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fast(2), func(context.Context) error {
		calls++
		return errThrottled
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errThrottled)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), fast(3), func(context.Context) error {
		calls++
		return &googleapi.Error{Code: 403, Message: "caller does not have permission"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_NoRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = Do(context.Background(), NoRetry, func(context.Context) error {
		calls++
		return errThrottled
	})
	assert.Equal(t, 1, calls)
}

func TestDo_CancelStopsRetries(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 5, Backoff: time.Second}, func(context.Context) error {
		calls++
		cancel()
		return errThrottled
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CustomRetryable(t *testing.T) {
	t.Parallel()

	calls := 0
	p := fast(3)
	p.Retryable = func(err error) bool { return err.Error() == "retry me" }
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("retry me")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoVal(t *testing.T) {
	t.Parallel()

	calls := 0
	val, err := DoVal(context.Background(), fast(3), func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
		}
		return []string{"a@acme.io"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@acme.io"}, val)

	n, err := DoVal(context.Background(), fast(2), func(context.Context) (int, error) {
		return 42, errThrottled
	})
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestPolicy_Delay(t *testing.T) {
	t.Parallel()

	p := Policy{Backoff: 100 * time.Millisecond, MaxBackoff: time.Second}.withDefaults()
	assert.Equal(t, 100*time.Millisecond, p.delay(0))
	assert.Equal(t, 200*time.Millisecond, p.delay(1))
	assert.Equal(t, 400*time.Millisecond, p.delay(2))
	assert.Equal(t, time.Second, p.delay(6))

	p.Jitter = 0.5
	for range 50 {
		d := p.delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("invalid range"), false},
		{"google 429", errThrottled, true},
		{"google 503 wrapped", fmt.Errorf("append: %w", &googleapi.Error{Code: 503}), true},
		{"google 400", &googleapi.Error{Code: 400}, false},
		{"timeout", &net.DNSError{IsTimeout: true, Err: "timeout"}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"flattened", errors.New("imap: write tcp: broken pipe"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTransient(tt.err), tt.name)
	}
}

func TestTransientStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, TransientStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		assert.False(t, TransientStatus(code), code)
	}
}

func TestLogRetry(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { LogRetry("sheet append")(1, errors.New("boom")) })
}
