package models

import "errors"

// User related errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// Session related errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Analysis related errors
var (
	ErrAnalysisNotFound = errors.New("analysis not found")
)
