package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", "celebstyle", time.Hour)

	token, expiresAt, err := m.GenerateAccessToken("0b8f3c1e-6a2f-4c55-9a0e-1f2d3c4b5a69", "editor@example.com", "editor")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0b8f3c1e-6a2f-4c55-9a0e-1f2d3c4b5a69", claims.AdminID)
	assert.Equal(t, "editor@example.com", claims.Email)
	assert.Equal(t, "editor", claims.Role)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret-a", "celebstyle", time.Hour).GenerateAccessToken("id", "a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewManager("secret-b", "celebstyle", time.Hour).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", "celebstyle", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.GenerateAccessToken("id", "a@b.c", "admin")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsOtherIssuer(t *testing.T) {
	token, _, err := NewManager("secret", "someone-else", time.Hour).GenerateAccessToken("id", "a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewManager("secret", "celebstyle", time.Hour).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", "", time.Hour).ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
