package dto

import (
	"time"

	"github.com/spec-kit/risk-catalog/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public shape of a principal. The password hash never
// leaves the server.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyName string    `json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// NewUserResponse maps a principal to its public shape.
func NewUserResponse(p *domain.Principal) UserResponse {
	return UserResponse{
		ID:          p.ID,
		Email:       p.Email,
		Role:        string(p.Role),
		CompanyName: p.CompanyName,
		CreatedAt:   p.CreatedAt,
	}
}
