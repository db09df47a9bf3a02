package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration marks required input missing before any external call.
	ErrConfiguration = errors.New("missing configuration")
	// ErrExternalService marks a completion-endpoint or voice-SDK failure.
	ErrExternalService = errors.New("external service failure")
	// ErrParse marks an external response that is not valid JSON after
	// fence stripping. Callers degrade to an empty/default result.
	ErrParse = errors.New("unparseable external response")
	// ErrInvalidState marks an operation attempted from a session state
	// that does not allow it. Termination paths treat it as a no-op.
	ErrInvalidState = errors.New("invalid session state")
)
