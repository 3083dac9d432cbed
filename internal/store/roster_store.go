package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/foldersync/internal/model"
)

// UpsertTeamMember inserts or replaces a roster entry. The (user, kind,
// position) slot is unique: writing a member into an occupied slot
// replaces the previous occupant.
func (s *SQLiteStore) UpsertTeamMember(ctx context.Context, m model.TeamMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("team member name must not be empty")
	}
	if m.Kind != model.MemberKindManager && m.Kind != model.MemberKindSupplier {
		return fmt.Errorf("unknown member kind %q", m.Kind)
	}
	if m.Position < 1 {
		return fmt.Errorf("member position must be 1-indexed, got %d", m.Position)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_members (id, user_id, name, kind, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, kind, position)
		 DO UPDATE SET name = excluded.name`,
		m.ID, m.UserID, m.Name, string(m.Kind), m.Position, m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting team member %q: %w", m.Name, err)
	}
	return nil
}

// GetTeamMembers retrieves a user's roster ordered by kind and slot
// position, the order placeholder resolution depends on.
func (s *SQLiteStore) GetTeamMembers(ctx context.Context, userID string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := s.db.SelectContext(ctx, &members,
		`SELECT id, user_id, name, kind, position, created_at
		 FROM team_members
		 WHERE user_id = ?
		 ORDER BY kind, position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	return members, nil
}

// DeleteTeamMember removes one roster entry by ID.
func (s *SQLiteStore) DeleteTeamMember(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM team_members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting team member %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("team member %s not found", id)
	}
	return nil
}

// SetBusinessTypes replaces the user's ordered business-type list.
func (s *SQLiteStore) SetBusinessTypes(ctx context.Context, userID string, types []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM business_types WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("clearing business types: %w", err)
	}

	for i, bt := range types {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO business_types (user_id, position, business_type) VALUES (?, ?, ?)",
			userID, i, bt,
		); err != nil {
			return fmt.Errorf("inserting business type %q: %w", bt, err)
		}
	}

	return tx.Commit()
}

// GetBusinessTypes retrieves the user's business types in declared order.
func (s *SQLiteStore) GetBusinessTypes(ctx context.Context, userID string) ([]string, error) {
	var types []string
	err := s.db.SelectContext(ctx, &types,
		"SELECT business_type FROM business_types WHERE user_id = ? ORDER BY position",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying business types: %w", err)
	}
	return types, nil
}
