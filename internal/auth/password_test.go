package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3r?Secret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Sup3r?Secret", hash, "hash must not be the plaintext")

	assert.True(t, VerifyPassword(hash, "Sup3r?Secret"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Sup3r?Secret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Sup3r?Secret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ by salt")
	assert.True(t, VerifyPassword(first, "Sup3r?Secret"))
	assert.True(t, VerifyPassword(second, "Sup3r?Secret"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, VerifyPassword("$2a$xx$garbage", "anything"))
}
