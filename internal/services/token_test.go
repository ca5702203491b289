package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ConfigureTokens("test-secret", time.Hour)

	token, err := IssueToken("64b0c1f2a3d4e5f60718293a")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b0c1f2a3d4e5f60718293a", subject)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	ConfigureTokens("test-secret", time.Hour)

	// Sign a token whose expiry is already in the past; IssueToken can never
	// produce one because ConfigureTokens refuses non-positive lifetimes.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "64b0c1f2a3d4e5f60718293a",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConfigureTokensKeepsLifetimePositive(t *testing.T) {
	ConfigureTokens("test-secret", time.Hour)
	ConfigureTokens("test-secret", -time.Minute)

	token, err := IssueToken("64b0c1f2a3d4e5f60718293a")
	require.NoError(t, err)

	// A non-positive lifetime is ignored, so the token is still valid.
	subject, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b0c1f2a3d4e5f60718293a", subject)

	ConfigureTokens("test-secret", time.Hour)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	ConfigureTokens("first-secret", time.Hour)
	token, err := IssueToken("64b0c1f2a3d4e5f60718293a")
	require.NoError(t, err)

	ConfigureTokens("second-secret", time.Hour)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	ConfigureTokens("test-secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
