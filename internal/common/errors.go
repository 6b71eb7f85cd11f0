// Package common defines shared constants and sentinel errors used across
// the contactkeeper server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Request validation errors.
	ErrValidation = errors.New("validation error")

	// Auth errors. Expired, malformed and badly signed tokens all map here.
	ErrInvalidToken = errors.New("invalid token")
)
