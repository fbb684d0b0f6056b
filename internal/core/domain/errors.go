package domain

import "errors"

var (
	// ErrUniqueViolation is returned when an email or phone number is already taken.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrReferentialViolation is returned when a phone number references a missing client.
	ErrReferentialViolation = errors.New("referential constraint violation")
	ErrNotFound             = errors.New("not found")
	ErrConnection           = errors.New("store unreachable")
)
