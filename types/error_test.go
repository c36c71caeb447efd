package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	e := NewError(ErrInvalidInput, "task description cannot be empty")
	assert.Equal(t, "[INVALID_INPUT] task description cannot be empty", e.Error())

	cause := errors.New("connection refused")
	e = NewError(ErrStoreUnavailable, "mongo query failed").WithCause(cause)
	assert.Contains(t, e.Error(), "STORE_UNAVAILABLE")
	assert.Contains(t, e.Error(), "connection refused")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	e := NewError(ErrUpstreamError, "embedding request failed").WithCause(cause)

	require.ErrorIs(t, e, cause)
	assert.Equal(t, cause, errors.Unwrap(e))

	wrapped := fmt.Errorf("outer: %w", e)
	var target *Error
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, ErrUpstreamError, target.Code)
}

func TestError_Builders(t *testing.T) {
	e := NewError(ErrRateLimited, "too many requests").
		WithHTTPStatus(429).
		WithRetryable(true).
		WithProvider("voyage-embedding")

	assert.Equal(t, 429, e.HTTPStatus)
	assert.True(t, e.Retryable)
	assert.Equal(t, "voyage-embedding", e.Provider)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrUpstreamError, "x").WithRetryable(true)))
	assert.False(t, IsRetryable(NewError(ErrInvalidInput, "x")))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrNoEmbedderAvailable, GetErrorCode(NewError(ErrNoEmbedderAvailable, "exhausted")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}

func TestStructureType_Valid(t *testing.T) {
	assert.True(t, StructureKeywords.Valid())
	assert.True(t, StructureDescription.Valid())
	assert.True(t, StructureEmbedding.Valid())
	assert.False(t, StructureType("graph").Valid())
	assert.False(t, StructureType("").Valid())
}
