package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// EngineerInput is the normalized payload of a create or update request.
// Availability has already been coerced to a strict boolean.
type EngineerInput struct {
	Name            *string
	Specialty       *string
	YearsExperience *float64
	Available       bool
}

// CreateEngineerInput wraps the payload of a create with its optional idempotency key.
type CreateEngineerInput struct {
	EngineerInput
	IdempotencyKey string
}

// EngineerService is the ownership-aware use-case layer over the record store.
type EngineerService interface {
	List(ctx context.Context, user *domain.User) ([]*domain.Engineer, error)
	Get(ctx context.Context, user *domain.User, id string) (*domain.Engineer, error)
	// Create persists the engineer and links it into user's owned set.
	Create(ctx context.Context, user *domain.User, in CreateEngineerInput) (*domain.Engineer, error)
	Update(ctx context.Context, user *domain.User, id string, in EngineerInput) (*domain.Engineer, error)
	// Delete removes the engineer and unlinks it from every owner.
	Delete(ctx context.Context, user *domain.User, id string) error
}
