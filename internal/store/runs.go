package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run describes one sampled traversal.
type Run struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	TracePath string `json:"trace_path"`
	Variable  string `json:"variable"`
	EnumName  string `json:"enum_name,omitempty"`
	From      uint64 `json:"from"`
	To        uint64 `json:"to"`
	Timescale string `json:"timescale"`
}

// Sample is one point of a run.
type Sample struct {
	Seq   int64  `json:"seq"`
	Time  uint64 `json:"time"`
	Raw   string `json:"raw"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteRun stores run and its samples in one transaction.
// ID and Seq are assigned by the store; any values set by the caller are
// ignored. Sample seq numbers are their positions in samples, starting at 1.
func (s *Store) WriteRun(ctx context.Context, run Run, samples []Sample) (Run, error) {
	from, err := safecast.Conv[int64](run.From)
	if err != nil {
		return Run{}, fmt.Errorf("write run: from time: %w", err)
	}
	to, err := safecast.Conv[int64](run.To)
	if err != nil {
		return Run{}, fmt.Errorf("write run: to time: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}
	run.ID = s.ids.Generate()
	run.Seq = seq

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, trace_path, variable, enum_name, from_time, to_time, timescale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.TracePath,
		run.Variable,
		run.EnumName,
		from,
		to,
		run.Timescale,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (run_id, seq, time, raw, value, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare samples: %w", err)
	}
	defer stmt.Close()

	for i, smp := range samples {
		t, err := safecast.Conv[int64](smp.Time)
		if err != nil {
			return Run{}, fmt.Errorf("write run: sample %d time: %w", i+1, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, int64(i+1), t, smp.Raw, smp.Value, smp.Error); err != nil {
			return Run{}, fmt.Errorf("write run: sample %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// ReadRun retrieves a single run by ID.
// Returns ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, trace_path, variable, enum_name, from_time, to_time, timescale
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, trace_path, variable, enum_name, from_time, to_time, timescale
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadSamples returns every sample of a run ordered by seq.
func (s *Store) ReadSamples(ctx context.Context, runID string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, time, raw, value, error
		FROM samples
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	return collectSamples(rows)
}

// SamplesInWindow returns the samples of a run with from <= time <= to.
func (s *Store) SamplesInWindow(ctx context.Context, runID string, from, to uint64) ([]Sample, error) {
	lo, err := safecast.Conv[int64](from)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	hi, err := safecast.Conv[int64](to)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, time, raw, value, error
		FROM samples
		WHERE run_id = ? AND time BETWEEN ? AND ?
		ORDER BY seq ASC
	`, runID, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	return collectSamples(rows)
}

// DeleteRun removes a run and its samples. Deleting an unknown run is not
// an error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var from, to int64
	if err := sc.Scan(&run.ID, &run.Seq, &run.TracePath, &run.Variable, &run.EnumName, &from, &to, &run.Timescale); err != nil {
		return Run{}, err
	}
	run.From = uint64(from)
	run.To = uint64(to)
	return run, nil
}

func collectSamples(rows *sql.Rows) ([]Sample, error) {
	defer rows.Close()

	samples := []Sample{}
	for rows.Next() {
		var smp Sample
		var t int64
		if err := rows.Scan(&smp.Seq, &t, &smp.Raw, &smp.Value, &smp.Error); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Time = uint64(t)
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
