package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldcrew/engineer-roster/internal/pkg/metrics"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

const historyLimit = 50

type activityService struct {
	repo   ports.ActivityRepository
	scope  domain.ListScope
	logger zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, scope domain.ListScope, logger zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, scope: scope, logger: logger}
}

// Record persists a single activity entry.
func (s *activityService) Record(ctx context.Context, a domain.Activity) error {
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}

	start := time.Now()
	err := s.repo.Insert(ctx, &a)
	if err != nil {
		metrics.ActivityWriteDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.ActivityErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record activity: %w", err)
	}
	metrics.ActivityWriteDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	metrics.ActivityRecordedTotal.WithLabelValues(string(a.Action)).Inc()

	s.logger.Debug().
		Str("engineer_id", a.EngineerID).
		Str("user_id", a.UserID).
		Str("action", string(a.Action)).
		Msg("activity recorded")
	return nil
}

// History returns the newest entries of an engineer's trail. Entries of
// deleted engineers stay readable.
func (s *activityService) History(ctx context.Context, user *domain.User, engineerID string) ([]*domain.Activity, error) {
	if s.scope == domain.ScopeOwned && !user.Owns(engineerID) {
		return nil, domain.ErrEngineerNotFound
	}

	list, err := s.repo.ListByEngineer(ctx, engineerID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("activity history: %w", err)
	}
	if list == nil {
		list = []*domain.Activity{}
	}
	return list, nil
}
