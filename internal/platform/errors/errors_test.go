package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/kudos/internal/domain"
)

func TestHTTPStatusByType(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("bad input"), http.StatusBadRequest},
		{NotFoundError("gone"), http.StatusNotFound},
		{ConflictError("taken"), http.StatusConflict},
		{RateLimitedError("slow down"), http.StatusTooManyRequests},
		{InvariantError("corrupt", nil), http.StatusInternalServerError},
		{InternalError("oops", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), "type %s", tt.err.Type)
	}
}

func TestAsStructuredErrorMapsDomainSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"actor not found", domain.ErrActorNotFound, TypeNotFound},
		{"content not found", domain.ErrContentNotFound, TypeNotFound},
		{"reaction not found", domain.ErrReactionNotFound, TypeNotFound},
		{"already reacted", domain.ErrAlreadyReacted, TypeConflict},
		{"invariant violation", domain.ErrInvariantViolation, TypeInvariant},
		{"unknown", errors.New("boom"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsStructuredError(tt.err)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestAsStructuredErrorSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("toggle failed: %w", domain.ErrAlreadyReacted)
	got := AsStructuredError(wrapped)
	assert.Equal(t, TypeConflict, got.Type)
}

func TestAsStructuredErrorPassesStructuredThrough(t *testing.T) {
	original := ValidationError("bad window").WithField("window", "soon")
	got := AsStructuredError(original)
	require.Same(t, original, got)
}
