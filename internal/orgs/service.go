package orgs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"lexibox-backend/internal/authz"
	"lexibox-backend/internal/documents"
	"lexibox-backend/internal/shared/apperr"
	"lexibox-backend/internal/users"
)

// Service contains organization membership and invitation logic.
type Service struct {
	Repo  Repo
	Users users.Repo
	Docs  documents.Repo
}

// CreateForSignup creates an organization during signup. Implements
// users.OrgCreator.
func (s *Service) CreateForSignup(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Wrap(apperr.ErrValidation, "organization name is required")
	}
	org := Organization{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateOrganization(ctx, org); err != nil {
		return "", err
	}
	return org.ID, nil
}

// MyOrganization returns the actor's organization with its derived owner: the
// earliest-created member holding the org-admin flag.
func (s *Service) MyOrganization(ctx context.Context, actor users.User) (Organization, *users.User, error) {
	if actor.OrganizationID == nil {
		return Organization{}, nil, apperr.Wrap(apperr.ErrNotFound, "user is not part of an organization")
	}
	org, err := s.Repo.GetOrganization(ctx, *actor.OrganizationID)
	if err != nil {
		return Organization{}, nil, err
	}
	members, err := s.Users.ListByOrganization(ctx, org.ID)
	if err != nil {
		return Organization{}, nil, err
	}
	return org, deriveOwner(members), nil
}

// ListMembers lists all users in the actor's organization. Org admin only.
func (s *Service) ListMembers(ctx context.Context, actor users.User) ([]users.User, error) {
	if err := authz.RequireOrgAdmin(actor); err != nil {
		return nil, err
	}
	return s.Users.ListByOrganization(ctx, *actor.OrganizationID)
}

// Invite creates a pending invitation for email to join orgID. The actor must
// administer that same organization.
func (s *Service) Invite(ctx context.Context, actor users.User, email, orgID string) (Invitation, error) {
	if err := authz.RequireOrgAdminOf(actor, orgID); err != nil {
		return Invitation{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return Invitation{}, apperr.Wrap(apperr.ErrValidation, "a valid email is required")
	}

	if existing, err := s.Users.GetByEmail(ctx, email); err == nil {
		if existing.InOrganization(orgID) {
			return Invitation{}, apperr.Wrap(apperr.ErrConflict, "user already exists in this organization")
		}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Invitation{}, err
	}

	if _, err := s.Repo.FindPending(ctx, email, orgID); err == nil {
		return Invitation{}, apperr.Wrap(apperr.ErrConflict, "invitation already sent to this email")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Invitation{}, err
	}

	invite := Invitation{
		ID:              uuid.NewString(),
		Email:           email,
		OrganizationID:  orgID,
		InvitedByUserID: actor.ID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.CreateInvitation(ctx, invite); err != nil {
		return Invitation{}, err
	}
	return invite, nil
}

// ListInvites lists pending invitations for the actor's organization.
func (s *Service) ListInvites(ctx context.Context, actor users.User) ([]Invitation, error) {
	if err := authz.RequireOrgAdmin(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListPendingByOrganization(ctx, *actor.OrganizationID)
}

// AcceptInvite moves a pending invitation addressed to the actor's email to
// accepted and joins the actor to the organization as a plain member. A second
// accept of the same invitation reports not found.
func (s *Service) AcceptInvite(ctx context.Context, actor users.User, inviteID string) (users.User, error) {
	invite, err := s.Repo.GetInvitation(ctx, inviteID)
	if err != nil || invite.Email != actor.Email || invite.Accepted {
		return users.User{}, apperr.Wrap(apperr.ErrNotFound, "invitation not found or already accepted")
	}

	now := time.Now().UTC()
	if pg, ok := s.Repo.(*PGRepo); ok {
		if err := pg.AcceptWithMembership(ctx, invite.ID, actor.ID, invite.OrganizationID, now); err != nil {
			return users.User{}, err
		}
		return s.Users.GetByID(ctx, actor.ID)
	}

	if err := s.Repo.MarkAccepted(ctx, invite.ID, now); err != nil {
		return users.User{}, err
	}
	return s.Users.SetMembership(ctx, actor.ID, &invite.OrganizationID, false)
}

// RemoveMember deletes a user from the actor's organization along with their
// documents. Org admins cannot remove themselves.
func (s *Service) RemoveMember(ctx context.Context, actor users.User, userID string) error {
	if err := authz.RequireOrgAdmin(actor); err != nil {
		return err
	}
	target, err := s.memberOf(ctx, *actor.OrganizationID, userID)
	if err != nil {
		return err
	}
	if err := authz.RequireNotSelf(actor, target.ID); err != nil {
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

// ToggleOrgAdmin flips the org-admin flag of another member of the actor's
// organization.
func (s *Service) ToggleOrgAdmin(ctx context.Context, actor users.User, userID string) (users.User, error) {
	if err := authz.RequireOrgAdmin(actor); err != nil {
		return users.User{}, err
	}
	target, err := s.memberOf(ctx, *actor.OrganizationID, userID)
	if err != nil {
		return users.User{}, err
	}
	if err := authz.RequireNotSelf(actor, target.ID); err != nil {
		return users.User{}, err
	}
	return s.Users.SetMembership(ctx, target.ID, target.OrganizationID, !target.IsOrgAdmin)
}

// memberOf loads a user and hides its existence unless it belongs to orgID.
func (s *Service) memberOf(ctx context.Context, orgID, userID string) (users.User, error) {
	target, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return users.User{}, apperr.Wrap(apperr.ErrNotFound, "user not found in your organization")
		}
		return users.User{}, err
	}
	if !target.InOrganization(orgID) {
		return users.User{}, apperr.Wrap(apperr.ErrNotFound, "user not found in your organization")
	}
	return target, nil
}

func deriveOwner(members []users.User) *users.User {
	var owner *users.User
	for i := range members {
		m := members[i]
		if !m.IsOrgAdmin {
			continue
		}
		if owner == nil || m.CreatedAt.Before(owner.CreatedAt) {
			owner = &m
		}
	}
	return owner
}
