package models

import (
	"errors"
	"regexp"
	"time"
)

// UsernamePattern is the accepted username shape.
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ErrUserNotFound is returned by user lookups that match no row.
var ErrUserNotFound = errors.New("user not found")

func ValidUsername(username string) bool {
	return UsernamePattern.MatchString(username)
}

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       *string   `json:"email,omitempty"`
	Password    string    `json:"-"`
	CountryCode *string   `json:"country_code,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	AgeRange    *string   `json:"age_range,omitempty"`
	Handedness  *string   `json:"handedness,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CountryCode string `json:"country_code"`
	Remember    bool   `json:"remember"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type UpdateProfileRequest struct {
	CountryCode *string `json:"country_code"`
	Gender      *string `json:"gender"`
	AgeRange    *string `json:"age_range"`
	Handedness  *string `json:"handedness"`
	IsPublic    bool    `json:"is_public"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
