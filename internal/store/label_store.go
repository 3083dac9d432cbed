package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/foldersync/internal/model"
)

// MergeLabelMap upserts label-map rows by (user, provider, friendly
// key) inside one transaction. Keys absent from entries are never
// touched, so a partially failed run cannot erase earlier valid rows.
func (s *SQLiteStore) MergeLabelMap(ctx context.Context, entries []model.LabelMapEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO label_map (user_id, provider, friendly_key, path, remote_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider, friendly_key)
		DO UPDATE SET path = excluded.path,
		              remote_id = excluded.remote_id,
		              updated_at = excluded.updated_at`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing label map upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		updatedAt := e.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		_, err = stmt.ExecContext(ctx,
			e.UserID, e.Provider, e.FriendlyKey, e.Path, e.RemoteID, updatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("merging label map key %s: %w", e.FriendlyKey, err)
		}
	}

	return tx.Commit()
}

// GetLabelMap retrieves the persisted label map for a user and provider.
func (s *SQLiteStore) GetLabelMap(
	ctx context.Context,
	userID string,
	provider string,
) ([]model.LabelMapEntry, error) {
	var entries []model.LabelMapEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT user_id, provider, friendly_key, path, remote_id, updated_at
		 FROM label_map
		 WHERE user_id = ? AND provider = ?
		 ORDER BY friendly_key`,
		userID, provider,
	)
	if err != nil {
		return nil, fmt.Errorf("querying label map: %w", err)
	}
	return entries, nil
}

// DeleteLabelMap removes every label-map row for a user and provider.
func (s *SQLiteStore) DeleteLabelMap(ctx context.Context, userID, provider string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM label_map WHERE user_id = ? AND provider = ?",
		userID, provider,
	)
	if err != nil {
		return fmt.Errorf("deleting label map: %w", err)
	}
	return nil
}
