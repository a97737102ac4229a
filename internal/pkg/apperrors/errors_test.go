package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorChain(t *testing.T) {
	err := fmt.Errorf("posting job: %w", &CustomError{Err: ErrWrongRole, Message: "Only alumni can post jobs"})

	assert.True(t, errors.Is(err, ErrWrongRole))
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.False(t, errors.Is(err, ErrNotApproved))

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Only alumni can post jobs", msg)
}

func TestUserMessage_PlainError(t *testing.T) {
	_, ok := UserMessage(errors.New("boom"))
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	err := NewConflictError("taken")
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.False(t, Is(err, ErrResourceNotFound, ErrValidationFailed))
}
