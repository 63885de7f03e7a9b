package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := signToken("sid-123", "secret", time.Hour)
	require.NoError(t, err)

	sid, err := parseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sid)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := signToken("sid-123", "secret", time.Hour)
	require.NoError(t, err)

	_, err = parseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := signToken("sid-123", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(token, "secret")
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := parseToken("not.a.token", "secret")
	assert.Error(t, err)
}
