// Package common defines shared constants and sentinel errors used across
// client and server layers of AuthKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Credential errors.
	ErrDuplicateIdentity  = errors.New("username or email is already taken")
	ErrUnknownIdentity    = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidPassword    = errors.New("password is empty or too long")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
