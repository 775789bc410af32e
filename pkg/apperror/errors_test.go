package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	sentinel := errors.New("last option")
	err := fmt.Errorf("remove: %w", Wrap(sentinel, http.StatusConflict, "cannot remove"))

	assert.True(t, IsAppError(err))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, http.StatusConflict, GetAppError(err).Code)
	assert.Equal(t, "cannot remove", GetAppError(err).Message)
}

func TestGetAppErrorHidesUnknown(t *testing.T) {
	err := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "Internal server error", err.Message)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "options", Message: "at least one option is required"}})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
}
