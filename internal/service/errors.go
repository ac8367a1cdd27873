package service

import "errors"

// Service-level errors controllers translate into HTTP statuses. Malformed
// identifiers surface as the same not-found errors as absent records;
// callers cannot tell the two apart.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyInput         = errors.New("empty message")
	ErrNoSpeech           = errors.New("no speech detected")
	ErrNoUpdateFields     = errors.New("no update data provided")
)
