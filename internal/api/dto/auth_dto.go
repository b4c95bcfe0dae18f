package dto

import (
	"time"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// LoginRequest payload. Identifier is a customer phone number or agent username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=64"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse pairs the user with their session token.
type LoginResponse struct {
	User UserResponse `json:"user"`
	Auth AuthResponse `json:"auth"`
}

// UserResponse is the public view of a customer or agent.
type UserResponse struct {
	ID          string              `json:"id"`
	Type        domain.UserType     `json:"type"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone,omitempty"`
	Username    string              `json:"username,omitempty"`
	Role        domain.AgentRole    `json:"role,omitempty"`
	LoanHistory []domain.LoanRecord `json:"loan_history,omitempty"`
}

// CustomerResponse is the customer panel shown beside a ticket.
type CustomerResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	LoanHistory []domain.LoanRecord `json:"loan_history"`
}
