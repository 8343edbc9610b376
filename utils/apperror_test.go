package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewAuthenticationError("who"), http.StatusUnauthorized},
		{NewAuthorizationError("no"), http.StatusForbidden},
		{NewNotFoundError("gone"), http.StatusNotFound},
		{NewConflictError("dup"), http.StatusConflict},
		{NewRateLimitError("slow"), http.StatusTooManyRequests},
		{NewDatabaseError("db", errors.New("boom")), http.StatusInternalServerError},
		{NewExternalServiceError("sms", errors.New("down")), http.StatusBadGateway},
	}
	for _, tc := range cases {
		appErr, ok := AsAppError(tc.err)
		require.True(t, ok)
		assert.Equal(t, tc.status, appErr.StatusCode(), tc.err.Error())
	}
}

func TestAsDatabaseErrorPassesDomainErrorsThrough(t *testing.T) {
	notFound := NewNotFoundError("Booking not found")
	wrapped := fmt.Errorf("loading booking: %w", notFound)

	assert.Same(t, wrapped, AsDatabaseError(wrapped, "Failed to fetch booking"))
	assert.True(t, IsKind(wrapped, KindNotFound))

	raw := errors.New("connection reset")
	err := AsDatabaseError(raw, "Failed to fetch booking")
	assert.True(t, IsKind(err, KindDatabase))
	assert.ErrorIs(t, err, raw)

	assert.NoError(t, AsDatabaseError(nil, "unused"))
}
