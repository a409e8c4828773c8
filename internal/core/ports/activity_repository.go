package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// ActivityRepository persists the engineer audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
	// ListByEngineer returns up to limit entries, newest first.
	ListByEngineer(ctx context.Context, engineerID string, limit int) ([]*domain.Activity, error)
}
