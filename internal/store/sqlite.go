package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME,
	sent        INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outcomes (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	domain     TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	status     TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	log_error  TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_domain ON outcomes(domain);
CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, query string) (*model.Run, error) {
	run := &model.Run{ID: uuid.New().String(), Query: query, StartedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, query, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Query, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *model.Run) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = *run.FinishedAt
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, sent = ?, skipped = ?, failed = ? WHERE id = ?`,
		finished, run.Sent, run.Skipped, run.Failed, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", run.ID)
	}
	return checkRowsAffected(res, "run", run.ID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, started_at, finished_at, sent, skipped, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Query, &r.StartedAt, &finished, &r.Sent, &r.Skipped, &r.Failed); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveOutcome(ctx context.Context, o *model.Outcome) error {
	if o.RunID == "" {
		return eris.New("sqlite: outcome without run id")
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, run_id, domain, recipient, status, reason, log_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.RunID, o.Domain, o.Recipient, string(o.Status), o.Reason, o.LogError, o.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert outcome for %s", o.Domain)
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, filter OutcomeFilter) ([]model.Outcome, error) {
	query := `SELECT id, run_id, domain, recipient, status, reason, log_error, created_at FROM outcomes WHERE 1=1`
	var args []any

	if filter.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, filter.RunID)
	}
	if filter.Domain != "" {
		query += ` AND domain = ?`
		args = append(args, filter.Domain)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limitOrDefault(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list outcomes iterate")
}

func (s *SQLiteStore) Recipients(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT recipient FROM outcomes WHERE status = ? AND recipient <> '' ORDER BY recipient`,
		string(model.OutcomeSent),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: sent recipients")
	}
	defer rows.Close() //nolint:errcheck

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan recipient")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: sent recipients iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOutcome(row scannable) (*model.Outcome, error) {
	var o model.Outcome
	var status string
	err := row.Scan(&o.ID, &o.RunID, &o.Domain, &o.Recipient, &status, &o.Reason, &o.LogError, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.New("outcome not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan outcome")
	}
	o.Status = model.OutcomeStatus(status)
	return &o, nil
}
