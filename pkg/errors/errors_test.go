package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewNotFoundError("provider with id abc not found")
	assert.Equal(t, "NOT_FOUND: provider with id abc not found", err.Error())

	wrapped := NewInternalError("failed to query", errors.New("connection refused"))
	assert.Equal(t, "INTERNAL: failed to query: connection refused", wrapped.Error())
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to query", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(NewConflictError("slot taken"), ErrorTypeConflict))
	assert.False(t, IsType(NewConflictError("slot taken"), ErrorTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeConflict))
	assert.False(t, IsType(nil, ErrorTypeConflict))
}

func TestIsType_SeesThroughWrapping(t *testing.T) {
	inner := NewValidationError("cannot book a past date")
	outer := fmt.Errorf("handling request: %w", inner)
	assert.True(t, IsType(outer, ErrorTypeValidation))
}
