package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun persists a run summary and its verdicts in one transaction.
// Uses ON CONFLICT DO NOTHING for idempotency - recording the same run id
// twice is silently ignored, verdicts included.
//
// CreatedAt is stored as RFC 3339 in UTC. A zero CreatedAt is replaced with
// the current time.
func (s *Store) WriteRun(ctx context.Context, run Run, verdicts []Verdict) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, rules, created_at, checked, valid)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Root,
		joinRules(run.Rules),
		createdAt.UTC().Format(time.RFC3339Nano),
		run.Checked,
		run.Valid,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verdicts (run_id, file_id, path, outcome, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, file_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare verdicts: %w", err)
	}
	defer stmt.Close()

	for _, v := range verdicts {
		if _, err := stmt.ExecContext(ctx, run.ID, v.FileID, v.Path, v.Outcome, v.Detail); err != nil {
			return fmt.Errorf("write verdict %d: %w", v.FileID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}

	return nil
}
