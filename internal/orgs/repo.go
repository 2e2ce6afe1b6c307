package orgs

import (
	"context"
	"time"
)

// Repo defines persistence operations for organizations and invitations.
type Repo interface {
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, orgID string) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	DeleteOrganization(ctx context.Context, orgID string) error

	CreateInvitation(ctx context.Context, invite Invitation) error
	GetInvitation(ctx context.Context, inviteID string) (Invitation, error)
	FindPending(ctx context.Context, email, orgID string) (Invitation, error)
	ListPendingByOrganization(ctx context.Context, orgID string) ([]Invitation, error)
	MarkAccepted(ctx context.Context, inviteID string, at time.Time) error
	DeleteInvitationsByOrganization(ctx context.Context, orgID string) error
}
