package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrEngineerNotFound = errors.New("engineer not found")
	ErrValidation       = errors.New("validation failed")
)

// ListScope controls which engineers a user can see and mutate.
type ListScope string

const (
	// ScopeAll exposes every engineer in the store to any authenticated user.
	ScopeAll ListScope = "all"
	// ScopeOwned restricts every operation to the caller's owned set.
	ScopeOwned ListScope = "owned"
)

// ParseListScope maps a configuration value to a ListScope, defaulting to ScopeAll.
func ParseListScope(s string) ListScope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeOwned)) {
		return ScopeOwned
	}
	return ScopeAll
}

// Engineer is the resource managed by users.
type Engineer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	YearsExperience float64   `json:"yearsExperience"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate checks the invariants every persisted engineer must satisfy.
func (e *Engineer) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return validateYears(e.YearsExperience)
}

// EngineerPatch carries the fields of an update. Nil pointers leave the stored
// value untouched; Available is always written.
type EngineerPatch struct {
	Name            *string
	Specialty       *string
	YearsExperience *float64
	Available       bool
}

// Validate checks the fields present in the patch.
func (p EngineerPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if p.YearsExperience != nil {
		return validateYears(*p.YearsExperience)
	}
	return nil
}

func validateYears(y float64) error {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: yearsExperience must be a finite number", ErrValidation)
	}
	if y < 0 {
		return fmt.Errorf("%w: yearsExperience must be greater than or equal to 0", ErrValidation)
	}
	return nil
}

// Apply merges the patch onto e.
func (p EngineerPatch) Apply(e *Engineer) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Specialty != nil {
		e.Specialty = *p.Specialty
	}
	if p.YearsExperience != nil {
		e.YearsExperience = *p.YearsExperience
	}
	e.Available = p.Available
}
