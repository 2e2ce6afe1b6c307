package users

import "time"

// User is an identity record. The password is stored only as a bcrypt hash.
// IsOrgAdmin is only meaningful while OrganizationID is set.
type User struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	IsAdmin        bool
	IsOrgAdmin     bool
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// InOrganization reports whether the user belongs to the given organization.
func (u User) InOrganization(orgID string) bool {
	return u.OrganizationID != nil && *u.OrganizationID == orgID
}
