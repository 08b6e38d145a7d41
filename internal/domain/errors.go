package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Errors crossing a port wrap exactly one of these so the
// HTTP layer can map them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrEngine       = errors.New("engine error")
	ErrParse        = errors.New("parse error")
)

// Project errors.
var (
	ErrProjectNotFound = newKindError(ErrNotFound, "project not found")
	ErrProjectExists   = newKindError(ErrConflict, "project already exists")
	ErrProjectInUse    = newKindError(ErrConflict, "project still has containers")
	ErrComposeInvalid  = newKindError(ErrParse, "compose document is malformed")
)

// Service errors.
var (
	ErrServiceNotFound    = newKindError(ErrNotFound, "service not found")
	ErrServiceExists      = newKindError(ErrConflict, "service already exists")
	ErrServiceNotRunning  = newKindError(ErrConflict, "service has no running containers")
	ErrServiceRunning     = newKindError(ErrConflict, "service has no stopped containers")
	ErrServiceNotCreated  = newKindError(ErrConflict, "service has no containers")
	ErrServiceInUse       = newKindError(ErrConflict, "service is a dependency of another service")
	ErrServiceImageNeeded = &ValidationError{Field: "image", Message: "either image or build is required"}
)

// Network errors.
var (
	ErrNetworkNotFound      = newKindError(ErrNotFound, "network not found")
	ErrNetworkExists        = newKindError(ErrConflict, "network already exists")
	ErrNetworkInUse         = newKindError(ErrConflict, "network is used by a service")
	ErrExternalDriverChange = &ValidationError{Field: "driver", Message: "driver of an external network cannot be changed"}
)

// Container errors.
var (
	ErrContainerNotFound   = newKindError(ErrNotFound, "container not found")
	ErrContainerRunning    = newKindError(ErrConflict, "container is already running")
	ErrContainerNotRunning = newKindError(ErrConflict, "container is not running")
)

// Registry errors.
var (
	ErrRepositoryNotFound  = newKindError(ErrNotFound, "repository not found")
	ErrRegistryUnreachable = newKindError(ErrEngine, "registry unreachable")
)

// Auth errors.
var (
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// kindError is a named error that belongs to one of the error kinds.
type kindError struct {
	msg  string
	kind error
}

func newKindError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// EngineFailure wraps a low-level container engine or registry failure.
func EngineFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrEngine, op, err)
}
