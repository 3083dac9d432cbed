package store

import (
	"context"

	"github.com/nhle/foldersync/internal/model"
)

// Store defines the persistence interface for the durable provisioning
// state: the per-user label map, the team roster, business types, and
// the run history.
type Store interface {
	// === Label map ===

	// MergeLabelMap upserts entries into the user's label map by
	// (user, provider, friendly key). Existing keys not present in
	// entries are left untouched, so valid rows from earlier runs
	// survive a later partially-failed run.
	MergeLabelMap(ctx context.Context, entries []model.LabelMapEntry) error
	GetLabelMap(ctx context.Context, userID, provider string) ([]model.LabelMapEntry, error)
	DeleteLabelMap(ctx context.Context, userID, provider string) error

	// === Team roster ===

	UpsertTeamMember(ctx context.Context, m model.TeamMember) error
	GetTeamMembers(ctx context.Context, userID string) ([]model.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error

	// === Business types ===

	SetBusinessTypes(ctx context.Context, userID string, types []string) error
	GetBusinessTypes(ctx context.Context, userID string) ([]string, error)

	// === Provisioning runs ===

	RecordRun(ctx context.Context, run model.ProvisioningRun) error
	GetLastRun(ctx context.Context, userID, provider string) (*model.ProvisioningRun, error)
}
