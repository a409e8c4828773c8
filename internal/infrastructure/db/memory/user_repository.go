package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// UserRepository implements ports.UserRepository in memory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Engineers = slices.Clone(u.Engineers)
	c.Tokens = slices.Clone(u.Tokens)
	if c.Engineers == nil {
		c.Engineers = []string{}
	}
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}

	stored := cloneUser(user)
	stored.ID = newID()
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *update.Email {
				return nil, domain.ErrUserExists
			}
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) AddEngineer(_ context.Context, userID, engineerID string) error {
	return r.mutate(userID, func(u *domain.User) { u.Engineers = addToSet(u.Engineers, engineerID) })
}

func (r *UserRepository) UnlinkEngineer(_ context.Context, engineerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		u.Engineers = pull(u.Engineers, engineerID)
	}
	return nil
}

func (r *UserRepository) AddToken(_ context.Context, userID, tokenID string) error {
	return r.mutate(userID, func(u *domain.User) { u.Tokens = addToSet(u.Tokens, tokenID) })
}

func (r *UserRepository) RemoveToken(_ context.Context, userID, tokenID string) error {
	return r.mutate(userID, func(u *domain.User) { u.Tokens = pull(u.Tokens, tokenID) })
}

func (r *UserRepository) mutate(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	return nil
}
