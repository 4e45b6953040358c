package auth

import (
	"time"

	"github.com/fmpickleball/federation-api/internal/user"
)

type RegisterRequest struct {
	Name             string   `json:"name" binding:"required"`
	Username         string   `json:"username" binding:"required,min=3,max=30"`
	Email            string   `json:"email" binding:"required,email"`
	Password         string   `json:"password" binding:"required,min=8,max=72"`
	Nationality      string   `json:"nationality,omitempty"`
	StateAffiliation string   `json:"state_affiliation,omitempty"`
	Roles            []string `json:"roles,omitempty"`
}

type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"maria@example.com"` // email or username
	Password        string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token"`
	InvalidateAllSessions bool   `json:"invalidate_all_sessions"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Nationality      string    `json:"nationality"`
	StateAffiliation string    `json:"state_affiliation"`
	Roles            []string  `json:"roles"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FilterUserRecord maps the stored user onto the public response shape.
func FilterUserRecord(u *user.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Username:         u.Username,
		Email:            u.Email,
		Nationality:      u.Nationality,
		StateAffiliation: u.StateAffiliation,
		Roles:            roles,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
