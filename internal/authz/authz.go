// Package authz holds the capability checks shared by every protected
// operation: self-ownership, org-admin scope and global-admin scope.
package authz

import (
	"lexibox-backend/internal/shared/apperr"
	"lexibox-backend/internal/users"
)

// RequireOrgAdmin checks the actor administers an organization. The org-admin
// flag is only meaningful while the organization reference is set.
func RequireOrgAdmin(actor users.User) error {
	if actor.OrganizationID == nil || !actor.IsOrgAdmin {
		return apperr.Wrap(apperr.ErrForbidden, "org admin privileges required")
	}
	return nil
}

// RequireOrgAdminOf additionally checks the target organization is the
// actor's own; org admins can never act outside their organization.
func RequireOrgAdminOf(actor users.User, orgID string) error {
	if err := RequireOrgAdmin(actor); err != nil {
		return err
	}
	if *actor.OrganizationID != orgID {
		return apperr.Wrap(apperr.ErrForbidden, "can only act within your own organization")
	}
	return nil
}

// RequireGlobalAdmin checks the actor holds the global-admin flag.
func RequireGlobalAdmin(actor users.User) error {
	if !actor.IsAdmin {
		return apperr.Wrap(apperr.ErrForbidden, "admin privileges required")
	}
	return nil
}

// RequireNotSelf rejects self-targeting admin actions.
func RequireNotSelf(actor users.User, targetUserID string) error {
	if actor.ID == targetUserID {
		return apperr.Wrap(apperr.ErrInvalidOperation, "cannot perform this action on your own account")
	}
	return nil
}
