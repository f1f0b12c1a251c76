package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("535 auth failed")
	err := fmt.Errorf("relay: %w", Relay("Failed to send email.", cause))

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindRelay, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Failed to send email.", appErr.Error())
	assert.ErrorIs(t, err, cause)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("x", nil).Code)
	assert.Equal(t, KindConfiguration, Configuration("x", nil).Kind)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("x").Code)
	assert.Equal(t, "Internal Server Error", Internal(errors.New("boom")).Message)
}
