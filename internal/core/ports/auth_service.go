package ports

import (
	"context"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService implements registration, login, and per-request identity
// resolution.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Identify resolves a bearer token to its user, re-reading the stored
	// record so role changes and deactivation take effect immediately.
	Identify(ctx context.Context, token string) (*domain.User, error)
}
