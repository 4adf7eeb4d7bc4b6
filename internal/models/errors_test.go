package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "urgencyScore", Reason: "must be between 0 and 10"}
	assert.Contains(t, err.Error(), "urgencyScore")
	assert.Contains(t, err.Error(), "must be between 0 and 10")
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: StatusCompleted, To: StatusApproved}
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "approved")
}

func TestErrorPredicatesMatchWrappedErrors(t *testing.T) {
	ve := fmt.Errorf("persisting appointment: %w", &ValidationError{Field: "rating", Reason: "out of range"})
	assert.True(t, IsValidationError(ve))
	assert.False(t, IsInvalidTransition(ve))

	te := fmt.Errorf("persisting appointment: %w", &InvalidTransitionError{From: StatusRejected, To: StatusApproved})
	assert.True(t, IsInvalidTransition(te))
	assert.False(t, IsValidationError(te))

	plain := errors.New("connection refused")
	assert.False(t, IsValidationError(plain))
	assert.False(t, IsInvalidTransition(plain))
}
