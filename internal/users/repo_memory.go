package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"lexibox-backend/internal/shared/apperr"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]User // id -> user
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.Email == user.Email {
			return apperr.Wrap(apperr.ErrConflict, "email already registered")
		}
	}
	r.data[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.data[userID]
	if !ok {
		return User{}, apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.data {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, apperr.Wrap(apperr.ErrNotFound, "user not found")
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.data))
	for _, user := range r.data {
		out = append(out, user)
	}
	sortByCreation(out)
	return out, nil
}

func (r *MemoryRepo) ListByOrganization(ctx context.Context, orgID string) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []User
	for _, user := range r.data {
		if user.InOrganization(orgID) {
			out = append(out, user)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *MemoryRepo) UpdateName(ctx context.Context, userID, name string) (User, error) {
	return r.update(ctx, userID, func(u *User) {
		u.Name = name
	})
}

func (r *MemoryRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	_, err := r.update(ctx, userID, func(u *User) {
		u.HashedPassword = hashedPassword
	})
	return err
}

func (r *MemoryRepo) SetAdmin(ctx context.Context, userID string, isAdmin bool) (User, error) {
	return r.update(ctx, userID, func(u *User) {
		u.IsAdmin = isAdmin
	})
}

func (r *MemoryRepo) SetMembership(ctx context.Context, userID string, orgID *string, isOrgAdmin bool) (User, error) {
	return r.update(ctx, userID, func(u *User) {
		u.OrganizationID = orgID
		u.IsOrgAdmin = isOrgAdmin
	})
}

func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[userID]; !ok {
		return apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	delete(r.data, userID)
	return nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data), nil
}

func (r *MemoryRepo) CountAdmins(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, user := range r.data {
		if user.IsAdmin {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) update(ctx context.Context, userID string, apply func(*User)) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.data[userID]
	if !ok {
		return User{}, apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	apply(&user)
	now := time.Now().UTC()
	user.UpdatedAt = &now
	r.data[userID] = user
	return user, nil
}

func sortByCreation(list []User) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
