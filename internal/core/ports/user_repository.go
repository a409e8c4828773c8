package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// ProfileUpdate carries the account fields a user may change. Nil fields are left as is.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// UserRepository persists user accounts (the credential store).
//
// Set mutations (AddEngineer, UnlinkEngineer, AddToken, RemoveToken) must be
// atomic at the store so concurrent requests on the same user never lose updates.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	// AddEngineer inserts engineerID into the user's owned set.
	AddEngineer(ctx context.Context, userID, engineerID string) error
	// UnlinkEngineer removes engineerID from every user's owned set.
	UnlinkEngineer(ctx context.Context, engineerID string) error

	AddToken(ctx context.Context, userID, tokenID string) error
	RemoveToken(ctx context.Context, userID, tokenID string) error
}
