package model

import "time"

// MemberKind distinguishes the two roster roles that feed taxonomy
// placeholder slots.
type MemberKind string

const (
	MemberKindManager  MemberKind = "manager"
	MemberKindSupplier MemberKind = "supplier"
)

// TeamMember is one roster entry. Position is the 1-indexed placeholder
// slot order within the member's kind; members past the numbered slots
// become dynamic top-level folders.
type TeamMember struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Name      string     `db:"name"`
	Kind      MemberKind `db:"kind"`
	Position  int        `db:"position"`
	CreatedAt time.Time  `db:"created_at"`
}
