package orgs

import "time"

// Organization is a tenant grouping. Ownership is not stored: the owner is
// derived at read time as the earliest-created org admin.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Invitation is a pending membership offer tied to an email address. It moves
// from pending to accepted exactly once and is never deleted except when its
// organization is deleted. Accepted invitations persist as audit records.
type Invitation struct {
	ID              string
	Email           string
	OrganizationID  string
	InvitedByUserID string
	Accepted        bool
	CreatedAt       time.Time
	AcceptedAt      *time.Time
}
