package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// RegisterRequest payload for new employees.
type RegisterRequest struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	Role     domain.EmployeeRole `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Role      domain.EmployeeRole `json:"role"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// EmployeeResponse never carries the password hash.
type EmployeeResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Role      domain.EmployeeRole `json:"role"`
	CreatedAt time.Time           `json:"createdAt"`
}
