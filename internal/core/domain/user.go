package domain

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUnauthenticated    = errors.New("not authorized")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an account that owns engineer records.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Engineers    []string  `json:"engineers"`
	Tokens       []string  `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Owns reports whether engineerID is in the user's owned set.
func (u *User) Owns(engineerID string) bool {
	return slices.Contains(u.Engineers, engineerID)
}

// HasToken reports whether tokenID is one of the user's currently issued tokens.
func (u *User) HasToken(tokenID string) bool {
	return tokenID != "" && slices.Contains(u.Tokens, tokenID)
}
