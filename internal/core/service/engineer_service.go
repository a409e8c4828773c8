package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldcrew/engineer-roster/internal/pkg/metrics"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// IdempotencyStore remembers which engineer a create request produced, keyed
// by the caller and the client-supplied idempotency key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (engineerID string, found bool, err error)
	Remember(ctx context.Context, userID, key, engineerID string) error
}

// EngineerOption configures optional collaborators of EngineerService.
type EngineerOption func(*EngineerService)

// WithScope sets the ownership scope applied to every operation.
func WithScope(scope domain.ListScope) EngineerOption {
	return func(s *EngineerService) { s.scope = scope }
}

// WithIdempotency enables idempotent creates.
func WithIdempotency(store IdempotencyStore) EngineerOption {
	return func(s *EngineerService) { s.idempotency = store }
}

// WithActivity publishes an activity entry for every mutation.
func WithActivity(pub ports.ActivityPublisher) EngineerOption {
	return func(s *EngineerService) { s.activity = pub }
}

type EngineerService struct {
	engineers   ports.EngineerRepository
	users       ports.UserRepository
	idempotency IdempotencyStore
	activity    ports.ActivityPublisher
	scope       domain.ListScope
	logger      zerolog.Logger
}

func NewEngineerService(engineers ports.EngineerRepository, users ports.UserRepository, logger zerolog.Logger, opts ...EngineerOption) *EngineerService {
	s := &EngineerService{
		engineers: engineers,
		users:     users,
		scope:     domain.ScopeAll,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EngineerService) List(ctx context.Context, user *domain.User) ([]*domain.Engineer, error) {
	var (
		list []*domain.Engineer
		err  error
	)
	if s.scope == domain.ScopeOwned {
		list, err = s.engineers.FindByIDs(ctx, user.Engineers)
	} else {
		list, err = s.engineers.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list engineers: %w", err)
	}
	if list == nil {
		list = []*domain.Engineer{}
	}
	return list, nil
}

func (s *EngineerService) Get(ctx context.Context, user *domain.User, id string) (*domain.Engineer, error) {
	if err := s.checkScope(user, id); err != nil {
		return nil, err
	}
	return s.engineers.FindByID(ctx, id)
}

// Create persists a new engineer and adds its id to the caller's owned set.
// A create carrying an idempotency key that was already used by the same user
// returns the engineer from the first request.
func (s *EngineerService) Create(ctx context.Context, user *domain.User, in ports.CreateEngineerInput) (*domain.Engineer, error) {
	if existing := s.replay(ctx, user, in.IdempotencyKey); existing != nil {
		metrics.EngineersCreatedTotal.WithLabelValues("replayed").Inc()
		return existing, nil
	}

	e := &domain.Engineer{
		Name:            deref(in.Name),
		Specialty:       deref(in.Specialty),
		YearsExperience: deref(in.YearsExperience),
		Available:       in.Available,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.engineers.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create engineer: %w", err)
	}

	if err := s.users.AddEngineer(ctx, user.ID, e.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Str("engineer_id", e.ID).Msg("failed to link engineer to owner")
		return nil, fmt.Errorf("link engineer: %w", err)
	}
	if !user.Owns(e.ID) {
		user.Engineers = append(user.Engineers, e.ID)
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, user.ID, in.IdempotencyKey, e.ID); err != nil {
			s.logger.Warn().Err(err).Str("engineer_id", e.ID).Msg("failed to store idempotency key")
		}
	}

	s.publish(user, e.ID, domain.ActionCreated)
	metrics.EngineersCreatedTotal.WithLabelValues("created").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("engineer_id", e.ID).Msg("engineer created")

	return e, nil
}

func (s *EngineerService) Update(ctx context.Context, user *domain.User, id string, in ports.EngineerInput) (*domain.Engineer, error) {
	if err := s.checkScope(user, id); err != nil {
		return nil, err
	}

	patch := domain.EngineerPatch{
		Name:            in.Name,
		Specialty:       in.Specialty,
		YearsExperience: in.YearsExperience,
		Available:       in.Available,
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.engineers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(user, id, domain.ActionUpdated)
	return updated, nil
}

// Delete removes the engineer, then drops the id from every owner's set.
// A failed unlink leaves a dangling reference, which owned-scope lookups skip.
func (s *EngineerService) Delete(ctx context.Context, user *domain.User, id string) error {
	if err := s.checkScope(user, id); err != nil {
		return err
	}

	if err := s.engineers.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.users.UnlinkEngineer(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("engineer_id", id).Msg("failed to unlink deleted engineer")
	}

	s.publish(user, id, domain.ActionDeleted)
	metrics.EngineersDeletedTotal.Inc()
	s.logger.Info().Str("user_id", user.ID).Str("engineer_id", id).Msg("engineer deleted")
	return nil
}

func (s *EngineerService) checkScope(user *domain.User, id string) error {
	if s.scope == domain.ScopeOwned && !user.Owns(id) {
		return domain.ErrEngineerNotFound
	}
	return nil
}

func (s *EngineerService) replay(ctx context.Context, user *domain.User, key string) *domain.Engineer {
	if key == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, user.ID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	existing, err := s.engineers.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrEngineerNotFound) {
			s.logger.Warn().Err(err).Str("engineer_id", id).Msg("idempotent replay lookup failed")
		}
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Str("engineer_id", id).Msg("idempotent replay")
	return existing
}

func (s *EngineerService) publish(user *domain.User, engineerID string, action domain.ActivityAction) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(domain.Activity{
		EngineerID: engineerID,
		UserID:     user.ID,
		Action:     action,
		At:         time.Now().UTC(),
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
