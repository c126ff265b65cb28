package postflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	transient := NewTransientError("rate limited", 429, nil)
	assert.Equal(t, ErrorTransient, transient.Category())
	assert.True(t, transient.Retryable())
	assert.Equal(t, 429, transient.StatusCode())

	permanent := NewPermanentError("invalid API key", 401, nil)
	assert.Equal(t, ErrorPermanent, permanent.Category())
	assert.False(t, permanent.Retryable())

	userInput := NewUserInputError("malformed request", 400, nil)
	assert.Equal(t, ErrorUserInput, userInput.Category())
	assert.False(t, userInput.Retryable())
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransientError("request failed", 0, cause)
	assert.Equal(t, "request failed: connection reset", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := NewPermanentError("model not found", 404, nil)
	assert.Equal(t, "model not found", bare.Error())
}

func TestIsTransientUnwraps(t *testing.T) {
	err := fmt.Errorf("calling provider: %w", NewTransientError("overloaded", 503, nil))
	assert.True(t, IsTransient(err))
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 503, StatusCodeOf(err))
}

func TestIsTransientPlainError(t *testing.T) {
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsPermanent(errors.New("boom")))
	assert.Equal(t, 0, StatusCodeOf(errors.New("boom")))
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
	assert.Equal(t, 30*time.Second, RetryAfterOf(err))

	wrapped := fmt.Errorf("chat: %w", err)
	assert.Equal(t, 30*time.Second, RetryAfterOf(wrapped))

	assert.Equal(t, time.Duration(0), RetryAfterOf(errors.New("boom")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("topic", "must not be empty")
	assert.Equal(t, "invalid topic: must not be empty", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("generate: %w", err)))
	assert.False(t, IsValidation(errors.New("boom")))
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("sess-1", StatusDone, "session is not awaiting a decision")
	assert.Contains(t, err.Error(), "sess-1")
	assert.Contains(t, err.Error(), "done")
	assert.True(t, IsConflict(err))
	assert.False(t, IsConflict(NewValidationError("topic", "too short")))
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{SessionID: "sess-missing"}
	assert.Equal(t, "session sess-missing not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", err)))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestImageError(t *testing.T) {
	cause := errors.New("illegal base64 data")
	err := &ImageError{Op: "decode", Ref: "base64", Err: cause}
	assert.Contains(t, err.Error(), "decode")
	assert.Equal(t, cause, errors.Unwrap(err))
}
