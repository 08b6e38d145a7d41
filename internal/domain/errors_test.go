package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrProjectNotFound, ErrNotFound},
		{ErrProjectExists, ErrConflict},
		{ErrComposeInvalid, ErrParse},
		{ErrServiceExists, ErrConflict},
		{ErrServiceImageNeeded, ErrValidation},
		{ErrNetworkNotFound, ErrNotFound},
		{ErrExternalDriverChange, ErrValidation},
		{ErrContainerRunning, ErrConflict},
		{ErrContainerNotRunning, ErrConflict},
		{ErrRepositoryNotFound, ErrNotFound},
		{ErrRegistryUnreachable, ErrEngine},
		{ErrInvalidCredentials, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.kind)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("ports", "invalid port %q", "x:y")
	assert.Equal(t, `ports: invalid port "x:y"`, err.Error())
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("add service: %w", err), &ve))
	assert.Equal(t, "ports", ve.Field)
}

func TestEngineFailure(t *testing.T) {
	cause := errors.New("connection refused")
	err := EngineFailure("start container", cause)
	assert.ErrorIs(t, err, ErrEngine)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "start container")
}
