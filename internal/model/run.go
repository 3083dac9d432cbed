package model

import "time"

// LabelMapEntry is one row of the durable name→ID map: the only
// artifact of a provisioning run with a lasting identity. Rows merge by
// (user, provider, friendly key) so valid entries survive partial
// failures in later runs.
type LabelMapEntry struct {
	UserID      string    `db:"user_id"`
	Provider    string    `db:"provider"`
	FriendlyKey string    `db:"friendly_key"`
	Path        string    `db:"path"`
	RemoteID    string    `db:"remote_id"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProvisioningRun is the persisted record of one reconciliation run.
// ErrorsJSON holds the itemized per-node failures.
type ProvisioningRun struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Provider   string    `db:"provider"`
	Created    int       `db:"created_count"`
	Matched    int       `db:"matched_count"`
	Errored    int       `db:"error_count"`
	Succeeded  bool      `db:"succeeded"`
	ErrorsJSON string    `db:"errors_json"`
	RanAt      time.Time `db:"ran_at"`
}
