package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := GenerateToken(key, "user-1", false, "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.False(t, claims.Admin)
	require.Equal(t, "test-agent", claims.UserAgent)
}

func TestParseToken_AdminClaim(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := GenerateToken(key, "admin-1", true, "")
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	require.True(t, claims.Admin)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken([]byte("key-one"), "user-1", false, "")
	require.NoError(t, err)

	_, err = ParseToken([]byte("key-two"), token)
	require.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("key"), "not-a-token")
	require.Error(t, err)
}
