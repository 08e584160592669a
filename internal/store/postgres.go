package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Pool is the subset of *pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS outreach_runs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	query       TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ,
	sent        INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outreach_outcomes (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id     TEXT NOT NULL REFERENCES outreach_runs(id),
	domain     TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	status     TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	log_error  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outreach_runs_started_at ON outreach_runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_outreach_outcomes_run_id ON outreach_outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outreach_outcomes_domain ON outreach_outcomes(domain);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, query string) (*model.Run, error) {
	run := &model.Run{ID: uuid.New().String(), Query: query, StartedAt: time.Now().UTC()}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_runs (id, query, started_at) VALUES ($1, $2, $3)`,
		run.ID, run.Query, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, run *model.Run) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = *run.FinishedAt
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE outreach_runs SET finished_at = $1, sent = $2, skipped = $3, failed = $4 WHERE id = $5`,
		finished, run.Sent, run.Skipped, run.Failed, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", run.ID)
	}
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, query, started_at, finished_at, sent, skipped, failed
		 FROM outreach_runs ORDER BY started_at DESC LIMIT $1`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Query, &r.StartedAt, &r.FinishedAt, &r.Sent, &r.Skipped, &r.Failed); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveOutcome(ctx context.Context, o *model.Outcome) error {
	if o.RunID == "" {
		return eris.New("postgres: outcome without run id")
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_outcomes (id, run_id, domain, recipient, status, reason, log_error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.RunID, o.Domain, o.Recipient, string(o.Status), o.Reason, o.LogError, o.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert outcome for %s", o.Domain)
}

func (s *PostgresStore) ListOutcomes(ctx context.Context, filter OutcomeFilter) ([]model.Outcome, error) {
	query := `SELECT id, run_id, domain, recipient, status, reason, log_error, created_at FROM outreach_outcomes WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.RunID != "" {
		query += ` AND run_id = ` + arg(filter.RunID)
	}
	if filter.Domain != "" {
		query += ` AND domain = ` + arg(filter.Domain)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ` + arg(limitOrDefault(filter.Limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list outcomes")
	}
	defer rows.Close()

	var out []model.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list outcomes")
		}
		out = append(out, *o)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list outcomes iterate")
}

func (s *PostgresStore) Recipients(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT recipient FROM outreach_outcomes WHERE status = $1 AND recipient <> '' ORDER BY recipient`,
		string(model.OutcomeSent),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: sent recipients")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, eris.Wrap(err, "postgres: scan recipient")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: sent recipients iterate")
}
