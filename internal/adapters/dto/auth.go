package dto

import (
	"github.com/bnema/stevedore/internal/domain"
)

// LoginRequest carries console credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IdentityResponse reports the session identity.
type IdentityResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// LogoutResponse confirms a logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// NewIdentityResponse converts an identity.
func NewIdentityResponse(id domain.Identity) IdentityResponse {
	return IdentityResponse{Authenticated: id.Authenticated, Username: id.Username}
}
