// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init()

	connID := uuid.New()
	token, err := CreateSessionToken(connID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, connID, got)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	Init()

	_, err := VerifySessionToken("not-a-jwt")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	Init()
	token, err := CreateSessionToken(uuid.New())
	require.NoError(t, err)

	// A restart regenerates the key pair, orphaning old tokens.
	Init()
	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}
