package store

import (
	"context"
	"fmt"
	"time"
)

// ListRuns returns every recorded run, newest first. UUIDv7 ids sort by
// creation time, so ORDER BY id DESC needs no timestamp parsing.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, rules, created_at, checked, valid
		FROM runs
		ORDER BY id COLLATE BINARY DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var rules, createdAt string
		if err := rows.Scan(&run.ID, &run.Root, &rules, &createdAt, &run.Checked, &run.Valid); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Rules = splitRules(rules)
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse run %s created_at: %w", run.ID, err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []Run{}
	}

	return runs, nil
}

// ReadRun retrieves a single run by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, root, rules, created_at, checked, valid
		FROM runs
		WHERE id = ?
	`, id)

	var run Run
	var rules, createdAt string
	if err := row.Scan(&run.ID, &run.Root, &rules, &createdAt, &run.Checked, &run.Valid); err != nil {
		return Run{}, err
	}
	run.Rules = splitRules(rules)

	var err error
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse run %s created_at: %w", run.ID, err)
	}
	return run, nil
}

// RunVerdicts returns every verdict of a run in enumeration order.
//
// Returns an empty slice (not nil) if the run has no verdicts.
func (s *Store) RunVerdicts(ctx context.Context, runID string) ([]Verdict, error) {
	return s.queryVerdicts(ctx, `
		SELECT file_id, path, outcome, detail
		FROM verdicts
		WHERE run_id = ?
		ORDER BY file_id ASC
	`, runID)
}

// RunFailures returns only the failed verdicts of a run, in enumeration
// order.
//
// Returns an empty slice (not nil) if the run has no failures.
func (s *Store) RunFailures(ctx context.Context, runID string) ([]Verdict, error) {
	return s.queryVerdicts(ctx, `
		SELECT file_id, path, outcome, detail
		FROM verdicts
		WHERE run_id = ? AND outcome = 'failed'
		ORDER BY file_id ASC
	`, runID)
}

func (s *Store) queryVerdicts(ctx context.Context, query string, args ...any) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []Verdict
	for rows.Next() {
		var v Verdict
		if err := rows.Scan(&v.FileID, &v.Path, &v.Outcome, &v.Detail); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		verdicts = append(verdicts, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}

	if verdicts == nil {
		verdicts = []Verdict{}
	}

	return verdicts, nil
}
