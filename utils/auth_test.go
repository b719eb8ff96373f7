package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateJWT("u1", "ada@example.com")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestParseJWT_WrongKey(t *testing.T) {
	JwtKey = []byte("test-secret")
	token, err := GenerateJWT("u1", "ada@example.com")
	require.NoError(t, err)

	JwtKey = []byte("different-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
