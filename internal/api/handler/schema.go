package handler

import "github.com/fieldcrew/engineer-roster/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// updateUserRequest only changes the fields that are sent.
type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// engineerRequest documents the engineer payload. The data middleware parses
// it directly so that JSON and form bodies share the coercion rules.
type engineerRequest struct {
	Name            string  `json:"name" example:"Mohamed"`
	Specialty       string  `json:"specialty" example:"Mechanical"`
	YearsExperience float64 `json:"yearsExperience" example:"4"`
	Available       bool    `json:"available" example:"true"`
}
