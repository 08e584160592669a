// Package store keeps a ledger of outreach runs and their per-lead outcomes.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// OutcomeFilter specifies criteria for listing outcomes.
type OutcomeFilter struct {
	RunID  string              `json:"run_id,omitempty"`
	Domain string              `json:"domain,omitempty"`
	Status model.OutcomeStatus `json:"status,omitempty"`
	Limit  int                 `json:"limit,omitempty"`
}

// Store defines the persistence interface for the run ledger.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, query string) (*model.Run, error)
	FinishRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Outcomes
	SaveOutcome(ctx context.Context, o *model.Outcome) error
	ListOutcomes(ctx context.Context, filter OutcomeFilter) ([]model.Outcome, error)

	// Recipients returns every recipient with a sent outcome, which makes
	// the ledger a history source.
	Recipients(ctx context.Context) ([]string, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the ledger selected by driver and applies migrations.
// DriverNone returns a nil Store.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(driver) {
	case DriverNone:
		return nil, nil
	case "", DriverSQLite:
		st, err = NewSQLite(dsn)
	case DriverPostgres:
		st, err = NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}
