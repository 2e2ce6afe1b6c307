package orgs

import (
	"context"
	"sort"
	"sync"
	"time"

	"lexibox-backend/internal/shared/apperr"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	orgs    map[string]Organization // id -> organization
	invites map[string]Invitation   // id -> invitation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orgs:    make(map[string]Organization),
		invites: make(map[string]Invitation),
	}
}

func (r *MemoryRepo) CreateOrganization(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orgs {
		if existing.Name == org.Name {
			return apperr.Wrap(apperr.ErrConflict, "organization name already taken")
		}
	}
	r.orgs[org.ID] = org
	return nil
}

func (r *MemoryRepo) GetOrganization(ctx context.Context, orgID string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.orgs[orgID]
	if !ok {
		return Organization{}, apperr.Wrap(apperr.ErrNotFound, "organization not found")
	}
	return org, nil
}

func (r *MemoryRepo) ListOrganizations(ctx context.Context) ([]Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Organization, 0, len(r.orgs))
	for _, org := range r.orgs {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) DeleteOrganization(ctx context.Context, orgID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[orgID]; !ok {
		return apperr.Wrap(apperr.ErrNotFound, "organization not found")
	}
	delete(r.orgs, orgID)
	return nil
}

func (r *MemoryRepo) CreateInvitation(ctx context.Context, invite Invitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invites {
		if !existing.Accepted && existing.Email == invite.Email && existing.OrganizationID == invite.OrganizationID {
			return apperr.Wrap(apperr.ErrConflict, "invitation already sent to this email")
		}
	}
	r.invites[invite.ID] = invite
	return nil
}

func (r *MemoryRepo) GetInvitation(ctx context.Context, inviteID string) (Invitation, error) {
	if err := ctx.Err(); err != nil {
		return Invitation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	invite, ok := r.invites[inviteID]
	if !ok {
		return Invitation{}, apperr.Wrap(apperr.ErrNotFound, "invitation not found")
	}
	return invite, nil
}

func (r *MemoryRepo) FindPending(ctx context.Context, email, orgID string) (Invitation, error) {
	if err := ctx.Err(); err != nil {
		return Invitation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, invite := range r.invites {
		if !invite.Accepted && invite.Email == email && invite.OrganizationID == orgID {
			return invite, nil
		}
	}
	return Invitation{}, apperr.Wrap(apperr.ErrNotFound, "invitation not found")
}

func (r *MemoryRepo) ListPendingByOrganization(ctx context.Context, orgID string) ([]Invitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Invitation
	for _, invite := range r.invites {
		if !invite.Accepted && invite.OrganizationID == orgID {
			out = append(out, invite)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) MarkAccepted(ctx context.Context, inviteID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[inviteID]
	if !ok || invite.Accepted {
		return apperr.Wrap(apperr.ErrNotFound, "invitation not found or already accepted")
	}
	invite.Accepted = true
	invite.AcceptedAt = &at
	r.invites[inviteID] = invite
	return nil
}

func (r *MemoryRepo) DeleteInvitationsByOrganization(ctx context.Context, orgID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, invite := range r.invites {
		if invite.OrganizationID == orgID {
			delete(r.invites, id)
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
