package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	t.Run("without wrapped error", func(t *testing.T) {
		t.Parallel()

		err := NotFound(TypeProductNotFound, "product not found")

		assert.Equal(t, "PRODUCT_NOT_FOUND: product not found", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("connection refused")
		err := Internal("failed to fetch product", inner)

		assert.Contains(t, err.Error(), "SERVER_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, inner)
	})
}

func TestConstructors_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            *Error
		expectedStatus int
		expectedType   string
	}{
		{"validation", Validation(TypeValidation, "bad input"), http.StatusBadRequest, TypeValidation},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized, TypeUnauthorized},
		{"forbidden", Forbidden(TypeSelfDeletion, "no self deletion"), http.StatusForbidden, TypeSelfDeletion},
		{"not found", NotFound(TypeOrderNotFound, "gone"), http.StatusNotFound, TypeOrderNotFound},
		{"conflict", Conflict(TypeDuplicateEntry, "taken"), http.StatusConflict, TypeDuplicateEntry},
		{"too many requests", TooManyRequests("slow down"), http.StatusTooManyRequests, TypeTooManyRequests},
		{"internal", Internal("boom", errors.New("x")), http.StatusInternalServerError, TypeServer},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expectedStatus, tt.err.Status)
			assert.Equal(t, tt.expectedType, tt.err.Type)
		})
	}
}

func TestError_WithDetails(t *testing.T) {
	t.Parallel()

	base := NotFound(TypeUserNotFound, "user not found")
	detailed := base.WithDetails(map[string]any{"email": "a@example.com"})

	// The original must stay untouched
	assert.Nil(t, base.Details)
	assert.Equal(t, "a@example.com", detailed.Details["email"])
	assert.Equal(t, base.Status, detailed.Status)
	assert.Equal(t, base.Type, detailed.Type)
}

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("typed error", func(t *testing.T) {
		t.Parallel()

		err := Conflict(TypeInsufficientStock, "insufficient stock")
		wrapped := fmt.Errorf("placing order: %w", err)

		got, ok := From(wrapped)

		assert.True(t, ok)
		assert.Equal(t, TypeInsufficientStock, got.Type)
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		got, ok := From(errors.New("plain"))

		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
