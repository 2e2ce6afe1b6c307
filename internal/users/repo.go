package users

import "context"

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListAll(ctx context.Context) ([]User, error)
	ListByOrganization(ctx context.Context, orgID string) ([]User, error)
	UpdateName(ctx context.Context, userID, name string) (User, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) (User, error)
	SetMembership(ctx context.Context, userID string, orgID *string, isOrgAdmin bool) (User, error)
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
}
