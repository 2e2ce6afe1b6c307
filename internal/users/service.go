package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lexibox-backend/internal/shared/apperr"
	"lexibox-backend/internal/shared/auth"
)

const (
	minNameLen        = 2
	minPasswordLen    = 6
	minNewPasswordLen = 8
)

// OrgCreator creates an organization during signup. Implemented by the orgs
// service; kept as an interface here to avoid a package cycle.
type OrgCreator interface {
	CreateForSignup(ctx context.Context, name string) (orgID string, err error)
}

// Service contains signup, login and profile logic.
type Service struct {
	Repo     Repo
	Orgs     OrgCreator
	TokenTTL time.Duration
}

// Signup registers a new user and issues a session token. When orgName is
// given, a new organization is created and the user becomes its org admin.
func (s *Service) Signup(ctx context.Context, name, email, password, orgName string) (User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if len(name) < minNameLen {
		return User{}, "", apperr.Wrap(apperr.ErrValidation, "name must be at least 2 characters long")
	}
	if email == "" || !strings.Contains(email, "@") {
		return User{}, "", apperr.Wrap(apperr.ErrValidation, "a valid email is required")
	}
	if len(password) < minPasswordLen {
		return User{}, "", apperr.Wrap(apperr.ErrValidation, "password must be at least 6 characters long")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, "", apperr.Wrap(apperr.ErrConflict, "email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}

	user := User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		HashedPassword: string(hash),
		CreatedAt:      time.Now().UTC(),
	}

	if orgName = strings.TrimSpace(orgName); orgName != "" {
		if s.Orgs == nil {
			return User{}, "", errors.New("organization signup not configured")
		}
		orgID, err := s.Orgs.CreateForSignup(ctx, orgName)
		if err != nil {
			return User{}, "", err
		}
		user.OrganizationID = &orgID
		user.IsOrgAdmin = true
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := auth.GenerateToken(user.Email, s.TokenTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a new session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.TrimSpace(email)
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, "", apperr.Wrap(apperr.ErrUnauthenticated, "incorrect email or password")
		}
		return User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return User{}, "", apperr.Wrap(apperr.ErrUnauthenticated, "incorrect email or password")
	}

	token, err := auth.GenerateToken(user.Email, s.TokenTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// UpdateProfile changes the display name; email is immutable after signup.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string) (User, error) {
	name = strings.TrimSpace(name)
	if len(name) < minNameLen {
		return User{}, apperr.Wrap(apperr.ErrValidation, "name must be at least 2 characters long")
	}
	return s.Repo.UpdateName(ctx, userID, name)
}

// ChangePassword requires the current password and enforces the new-password
// length policy.
func (s *Service) ChangePassword(ctx context.Context, actor User, currentPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.HashedPassword), []byte(currentPassword)); err != nil {
		return apperr.Wrap(apperr.ErrUnauthenticated, "current password is incorrect")
	}
	if len(newPassword) < minNewPasswordLen {
		return apperr.Wrap(apperr.ErrValidation, "new password must be at least 8 characters long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, actor.ID, string(hash))
}
