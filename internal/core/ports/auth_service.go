package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput carries the account fields to change. Nil fields are left as is.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// AuthService handles accounts and bearer tokens.
type AuthService interface {
	// Register creates the account and issues its first token.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a raw token to its user and token id.
	// It returns domain.ErrUnauthenticated for any credential problem.
	Authenticate(ctx context.Context, token string) (*domain.User, string, error)
	Logout(ctx context.Context, userID, tokenID string) error
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
