package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"tokostore/internal/apperrors"
)

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("update failed: %w", apperrors.NotFound("The product with id x does not exist"))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "update failed: The product with id x does not exist", err.Error())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound},
		{"insufficient stock", apperrors.InsufficientStock("short"), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("ctx: %w", apperrors.New("bad", http.StatusBadRequest)), http.StatusBadRequest},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}

func TestNew_CodeFromStatus(t *testing.T) {
	assert.Equal(t, apperrors.CodeNotFound, apperrors.New("x", http.StatusNotFound).Code)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.New("x", http.StatusBadRequest).Code)
	assert.Equal(t, apperrors.CodeInsufficientStock, (&apperrors.AppError{Code: apperrors.CodeInsufficientStock}).Error())
}
