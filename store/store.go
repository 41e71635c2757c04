// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/solution"
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	model         TEXT NOT NULL,
	assortativity TEXT NOT NULL,
	method        TEXT NOT NULL,
	verdict       TEXT NOT NULL,
	reason        TEXT NOT NULL,
	theta0        REAL NOT NULL,
	guess_upper   REAL NOT NULL,
	trials        INTEGER NOT NULL,
	tolerance     REAL NOT NULL,
	knots         INTEGER NOT NULL,
	direction     INTEGER NOT NULL,
	row_count     INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_model ON runs(model);

CREATE TABLE IF NOT EXISTS params (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	name   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);

CREATE TABLE IF NOT EXISTS points (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx    INTEGER NOT NULL,
	x      REAL NOT NULL,
	mu     REAL NOT NULL,
	theta  REAL NOT NULL,
	wage   REAL NOT NULL,
	profit REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// Run is the summary of a stored solve.
type Run struct {
	ID            uuid.UUID
	Model         string
	Assortativity string
	Method        string
	Verdict       string
	Reason        string
	Theta0        float64
	GuessUpper    float64
	Trials        int
	Tolerance     float64
	Knots         int
	Direction     solution.Direction
	Rows          int
	Params        map[string]float64
	CreatedAt     time.Time
}

// Filter narrows ListRuns. Zero values match everything.
type Filter struct {
	Model string
	Limit int
}

// Store wraps a SQLite handle. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at dsn and applies the schema.
// Memory gives a private in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if dsn == Memory {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: migrate: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

// SaveRun writes res, the model parameters and every table row in one
// transaction. The run id is res.ID.
func (s *Store) SaveRun(ctx context.Context, m *model.Model, res *shooting.Result) (Run, error) {
	if m == nil || res == nil || res.Table == nil {
		return Run{}, ErrNilResult
	}
	run := Run{
		ID:            res.ID,
		Model:         m.Name(),
		Assortativity: m.Assortativity().String(),
		Method:        res.Method,
		Verdict:       res.Outcome.Verdict.String(),
		Reason:        res.Outcome.Reason.String(),
		Theta0:        res.Guess,
		GuessUpper:    res.GuessUpper,
		Trials:        res.Trials,
		Tolerance:     res.Tolerance,
		Knots:         res.Knots,
		Direction:     res.Table.Direction(),
		Rows:          res.Table.Len(),
		Params:        m.Params(),
		CreatedAt:     s.now().UTC(),
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, model, assortativity, method, verdict, reason, theta0, guess_upper,
		                   trials, tolerance, knots, direction, row_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Model, run.Assortativity, run.Method, run.Verdict, run.Reason,
		run.Theta0, run.GuessUpper, run.Trials, run.Tolerance, run.Knots, int(run.Direction),
		run.Rows, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("store: insert run: %w", err)
	}

	for _, name := range m.ParamNames() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO params (run_id, name, value) VALUES (?, ?, ?)`,
			run.ID.String(), name, run.Params[name]); err != nil {
			return Run{}, fmt.Errorf("store: insert param %s: %w", name, err)
		}
	}

	ins, err := tx.PrepareContext(ctx,
		`INSERT INTO points (run_id, idx, x, mu, theta, wage, profit) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("store: prepare rows: %w", err)
	}
	defer ins.Close()
	for i, r := range res.Table.Rows() {
		if _, err := ins.ExecContext(ctx, run.ID.String(), i, r.X, r.Mu, r.Theta, r.Wage, r.Profit); err != nil {
			return Run{}, fmt.Errorf("store: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("store: commit: %w", err)
	}
	return run, nil
}

const runColumns = `id, model, assortativity, method, verdict, reason, theta0, guess_upper,
	trials, tolerance, knots, direction, row_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		id        string
		dir       int
		createdAt string
	)
	err := sc.Scan(&id, &run.Model, &run.Assortativity, &run.Method, &run.Verdict, &run.Reason,
		&run.Theta0, &run.GuessUpper, &run.Trials, &run.Tolerance, &run.Knots, &dir, &run.Rows, &createdAt)
	if err != nil {
		return Run{}, err
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("%w: id %q: %w", ErrCorrupt, id, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("%w: created_at %q: %w", ErrCorrupt, createdAt, err)
	}
	run.Direction = solution.Direction(dir)
	return run, nil
}

// GetRun returns the summary of one run, parameters included.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: get run %s: %w", id, err)
	}
	if run.Params, err = s.params(ctx, id); err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) params(ctx context.Context, id uuid.UUID) (map[string]float64, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT name, value FROM params WHERE run_id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("store: params %s: %w", id, err)
	}
	defer rs.Close()

	out := make(map[string]float64)
	for rs.Next() {
		var (
			name string
			v    float64
		)
		if err := rs.Scan(&name, &v); err != nil {
			return nil, fmt.Errorf("store: params %s: %w", id, err)
		}
		out[name] = v
	}
	return out, rs.Err()
}

// ListRuns returns run summaries, newest first. Params are not loaded.
func (s *Store) ListRuns(ctx context.Context, f Filter) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if f.Model != "" {
		q += ` WHERE model = ?`
		args = append(args, f.Model)
	}
	q += ` ORDER BY seq DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rs, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rs.Close()

	var runs []Run
	for rs.Next() {
		run, err := scanRun(rs)
		if err != nil {
			return nil, fmt.Errorf("store: list runs: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rs.Err()
}

// LoadTable rebuilds the solution table of a run.
func (s *Store) LoadTable(ctx context.Context, id uuid.UUID) (*solution.Table, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Direction != solution.Increasing && run.Direction != solution.Decreasing {
		return nil, fmt.Errorf("%w: direction %d", ErrCorrupt, int(run.Direction))
	}

	rs, err := s.db.QueryContext(ctx,
		`SELECT x, mu, theta, wage, profit FROM points WHERE run_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return nil, fmt.Errorf("store: load table %s: %w", id, err)
	}
	defer rs.Close()

	var t *solution.Table
	for rs.Next() {
		var r solution.Row
		if err := rs.Scan(&r.X, &r.Mu, &r.Theta, &r.Wage, &r.Profit); err != nil {
			return nil, fmt.Errorf("store: load table %s: %w", id, err)
		}
		if t == nil {
			t = solution.New(r, run.Direction)
			continue
		}
		if err := t.Append(r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("store: load table %s: %w", id, err)
	}
	if t == nil || t.Len() != run.Rows {
		return nil, fmt.Errorf("%w: %s: expected %d rows", ErrCorrupt, id, run.Rows)
	}
	return t, nil
}

// DeleteRun removes a run with its parameters and rows.
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	// foreign_keys is per connection; pooled file connections may not have it
	for _, q := range []string{`DELETE FROM points WHERE run_id = ?`, `DELETE FROM params WHERE run_id = ?`} {
		if _, err := tx.ExecContext(ctx, q, id.String()); err != nil {
			return fmt.Errorf("store: delete run %s: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
