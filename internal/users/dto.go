package users

import "time"

// UserResponse is the outward-facing representation of a user.
type UserResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	IsAdmin        bool       `json:"is_admin"`
	IsOrgAdmin     bool       `json:"is_org_admin"`
	OrganizationID *string    `json:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// TokenResponse carries an issued bearer credential and its user.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// ToResponse converts a User to its API shape. The password hash never leaves
// the service boundary.
func ToResponse(user User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		IsOrgAdmin:     user.IsOrgAdmin,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func toTokenResponse(user User, token string) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        ToResponse(user),
	}
}
