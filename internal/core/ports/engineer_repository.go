package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// EngineerRepository persists engineer records (the record store).
// Lookups by a malformed id report domain.ErrEngineerNotFound.
type EngineerRepository interface {
	// Create inserts e and sets its ID and timestamps.
	Create(ctx context.Context, e *domain.Engineer) error
	FindAll(ctx context.Context) ([]*domain.Engineer, error)
	// FindByIDs returns the engineers whose ids are in ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Engineer, error)
	FindByID(ctx context.Context, id string) (*domain.Engineer, error)
	// Update merges patch onto the stored record and returns the result.
	Update(ctx context.Context, id string, patch domain.EngineerPatch) (*domain.Engineer, error)
	Delete(ctx context.Context, id string) error
}
