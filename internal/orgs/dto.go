package orgs

import (
	"time"

	"lexibox-backend/internal/users"
)

// OrganizationResponse is the outward-facing representation of an
// organization. Owner is the derived earliest org admin, when one exists.
type OrganizationResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
	Owner     *users.UserResponse `json:"owner,omitempty"`
}

// InvitationResponse is the outward-facing representation of an invitation.
type InvitationResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	OrganizationID  string     `json:"organization_id"`
	InvitedByUserID string     `json:"invited_by_user_id"`
	Accepted        bool       `json:"accepted"`
	CreatedAt       time.Time  `json:"created_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
}

// ToOrganizationResponse converts an Organization and its derived owner.
func ToOrganizationResponse(org Organization, owner *users.User) OrganizationResponse {
	resp := OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
	if owner != nil {
		ownerResp := users.ToResponse(*owner)
		resp.Owner = &ownerResp
	}
	return resp
}

func toInvitationResponse(invite Invitation) InvitationResponse {
	return InvitationResponse{
		ID:              invite.ID,
		Email:           invite.Email,
		OrganizationID:  invite.OrganizationID,
		InvitedByUserID: invite.InvitedByUserID,
		Accepted:        invite.Accepted,
		CreatedAt:       invite.CreatedAt,
		AcceptedAt:      invite.AcceptedAt,
	}
}
