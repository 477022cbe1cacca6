// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/harvesthub/marketplace/internal/identity"
)

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required,max=50"`
	Password        string `json:"password"          validate:"required,min=6,max=40"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email"    validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=6,max=40"`
}

type IdentityResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	Identity    IdentityResponse `json:"user"`
}

func ToIdentityResponse(i *identity.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        i.ID,
		Username:  i.Username,
		Email:     i.Email,
		Roles:     i.Roles,
		CreatedAt: i.CreatedAt,
	}
}
