package utils

import (
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePrincipal(t *testing.T) {
	p := models.Principal{ID: "user-1", Role: models.RoleAdmin, Phone: "9876543210"}

	token, expiresAt, err := GenerateToken(p, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := ParsePrincipal(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParsePrincipalRejectsExpiredAndTampered(t *testing.T) {
	p := models.Principal{ID: "user-1", Role: models.RoleClient}

	expired, _, err := GenerateToken(p, -time.Minute)
	require.NoError(t, err)
	_, err = ParsePrincipal(expired)
	assert.Error(t, err)

	valid, _, err := GenerateToken(p, time.Hour)
	require.NoError(t, err)
	_, err = ParsePrincipal(valid + "x")
	assert.Error(t, err)
}
