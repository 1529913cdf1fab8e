package service

import "errors"

// Failure kinds surfaced to handlers. Collaborator failures are mapped
// onto one of these at the boundary; domain code never produces them.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	// ErrLimitReached is the specific report-creation cap condition,
	// distinguishable from a generic failure.
	ErrLimitReached = errors.New("report limit reached")
)
