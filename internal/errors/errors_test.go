package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranie/livechat/internal/domain"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{TypeValidation, http.StatusBadRequest},
		{TypeNotFound, http.StatusNotFound},
		{TypeConflict, http.StatusConflict},
		{TypeExternal, http.StatusBadGateway},
		{TypeInternal, http.StatusInternalServerError},
		{ErrorType("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			e := &Error{Type: tt.errType}
			assert.Equal(t, tt.want, e.HTTPStatus())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := ExternalError("store unavailable", cause)

	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "connection refused")
}

func TestError_WithField(t *testing.T) {
	e := ValidationError("name is required").WithField("field", "name")

	assert.Equal(t, "name", e.Context["field"])
	assert.Equal(t, "name", e.ToResponse().Context["field"])
}

func TestAsStructuredError_PassesThroughStructured(t *testing.T) {
	original := ConflictError("already there")

	got := AsStructuredError(fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, got)
}

func TestAsStructuredError_MapsDomainSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"duplicate comment", domain.ErrDuplicateComment, TypeConflict},
		{"store unavailable", domain.ErrStoreUnavailable, TypeExternal},
		{"protocol violation", domain.ErrProtocolViolation, TypeValidation},
		{"wrapped sentinel", fmt.Errorf("put failed: %w", domain.ErrDuplicateComment), TypeConflict},
		{"plain error", errors.New("boom"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsStructuredError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}
