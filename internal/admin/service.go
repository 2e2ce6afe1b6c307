package admin

import (
	"context"

	"lexibox-backend/internal/authz"
	"lexibox-backend/internal/documents"
	"lexibox-backend/internal/orgs"
	"lexibox-backend/internal/users"
)

// Stats summarizes system-wide usage.
type Stats struct {
	TotalUsers              int     `json:"total_users"`
	TotalDocuments          int     `json:"total_documents"`
	AdminUsers              int     `json:"admin_users"`
	AverageDocumentsPerUser float64 `json:"average_documents_per_user"`
}

// Service contains system-wide administrative logic. Every operation requires
// the global admin flag.
type Service struct {
	Users users.Repo
	Docs  documents.Repo
	Orgs  orgs.Repo
}

// ListUsers returns every user in the system.
func (s *Service) ListUsers(ctx context.Context, actor users.User) ([]users.User, error) {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	return s.Users.ListAll(ctx)
}

// ListDocuments returns every document in the system.
func (s *Service) ListDocuments(ctx context.Context, actor users.User) ([]documents.Document, error) {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	return s.Docs.ListAll(ctx)
}

// GetStats computes system-wide counters.
func (s *Service) GetStats(ctx context.Context, actor users.User) (Stats, error) {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return Stats{}, err
	}
	totalUsers, err := s.Users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalDocs, err := s.Docs.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	adminUsers, err := s.Users.CountAdmins(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		TotalUsers:     totalUsers,
		TotalDocuments: totalDocs,
		AdminUsers:     adminUsers,
	}
	if totalUsers > 0 {
		stats.AverageDocumentsPerUser = float64(totalDocs) / float64(totalUsers)
	}
	return stats, nil
}

// ToggleAdmin flips another user's global admin flag. Admins cannot change
// their own flag.
func (s *Service) ToggleAdmin(ctx context.Context, actor users.User, userID string) (users.User, error) {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return users.User{}, err
	}
	if err := authz.RequireNotSelf(actor, userID); err != nil {
		return users.User{}, err
	}
	target, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	return s.Users.SetAdmin(ctx, target.ID, !target.IsAdmin)
}

// DeleteUser removes any user and their documents. Admins cannot delete
// themselves.
func (s *Service) DeleteUser(ctx context.Context, actor users.User, userID string) error {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return err
	}
	if err := authz.RequireNotSelf(actor, userID); err != nil {
		return err
	}
	target, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if pg, ok := s.Users.(*users.PGRepo); ok {
		return pg.DeleteWithDocuments(ctx, target.ID)
	}
	if _, err := s.Docs.DeleteByUser(ctx, target.ID); err != nil {
		return err
	}
	return s.Users.Delete(ctx, target.ID)
}

// ListOrganizations returns every organization in the system.
func (s *Service) ListOrganizations(ctx context.Context, actor users.User) ([]orgs.Organization, error) {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	return s.Orgs.ListOrganizations(ctx)
}

// DeleteOrganization removes an organization with its members, their
// documents and its invitations.
func (s *Service) DeleteOrganization(ctx context.Context, actor users.User, orgID string) error {
	if err := authz.RequireGlobalAdmin(actor); err != nil {
		return err
	}

	if pg, ok := s.Orgs.(*orgs.PGRepo); ok {
		return pg.DeleteCascade(ctx, orgID)
	}

	if _, err := s.Orgs.GetOrganization(ctx, orgID); err != nil {
		return err
	}
	members, err := s.Users.ListByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if _, err := s.Docs.DeleteByUser(ctx, member.ID); err != nil {
			return err
		}
		if err := s.Users.Delete(ctx, member.ID); err != nil {
			return err
		}
	}
	if err := s.Orgs.DeleteInvitationsByOrganization(ctx, orgID); err != nil {
		return err
	}
	return s.Orgs.DeleteOrganization(ctx, orgID)
}
