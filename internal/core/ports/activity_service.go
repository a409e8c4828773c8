package ports

import (
	"context"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// ActivityPublisher hands an activity entry to the asynchronous recorder.
type ActivityPublisher interface {
	Publish(a domain.Activity)
}

// ActivityService records and reads the engineer audit trail.
type ActivityService interface {
	Record(ctx context.Context, a domain.Activity) error
	History(ctx context.Context, user *domain.User, engineerID string) ([]*domain.Activity, error)
}
