package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/foldersync/internal/model"
)

// RecordRun persists the outcome of one reconciliation run.
func (s *SQLiteStore) RecordRun(ctx context.Context, run model.ProvisioningRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.RanAt.IsZero() {
		run.RanAt = time.Now().UTC()
	}
	if run.ErrorsJSON == "" {
		run.ErrorsJSON = "[]"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO provisioning_runs
		 (id, user_id, provider, created_count, matched_count, error_count, succeeded, errors_json, ran_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, run.Provider,
		run.Created, run.Matched, run.Errored,
		run.Succeeded, run.ErrorsJSON, run.RanAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording provisioning run: %w", err)
	}
	return nil
}

// GetLastRun retrieves the most recent run for a user and provider, or
// nil when none exists.
func (s *SQLiteStore) GetLastRun(
	ctx context.Context,
	userID string,
	provider string,
) (*model.ProvisioningRun, error) {
	var run model.ProvisioningRun
	err := s.db.GetContext(ctx, &run,
		`SELECT id, user_id, provider, created_count, matched_count, error_count, succeeded, errors_json, ran_at
		 FROM provisioning_runs
		 WHERE user_id = ? AND provider = ?
		 ORDER BY ran_at DESC
		 LIMIT 1`,
		userID, provider,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}
	return &run, nil
}
