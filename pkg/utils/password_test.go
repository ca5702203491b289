package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("pw123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("pw123456")
	require.NoError(t, err)
	h2, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "same password must produce different hashes")
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	_, err := VerifyPassword("pw123456", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("pw123456", "$bcrypt$v=19$m=1,t=1,p=1$abc$def")
	assert.Error(t, err)
}
