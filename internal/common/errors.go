// Package common contains shared sentinel errors used across TaskVault
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic flow control).
	ErrInternal    = errors.New("internal error")
	ErrUnavailable = errors.New("store unavailable")
	ErrValidation  = errors.New("validation failed")

	// Signup/signin errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("invalid password length")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenMissing = errors.New("token missing")

	// Ownership errors.
	ErrForbidden = errors.New("forbidden")
)
