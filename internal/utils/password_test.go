package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("abcdef12")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifySecret(hash, "abcdef12"))
	assert.False(t, VerifySecret(hash, "abcdef13"))
	assert.False(t, VerifySecret(hash, ""))
}

func TestHashSecretSaltsPerCall(t *testing.T) {
	h1, err := HashSecret("same-secret")
	require.NoError(t, err)
	h2, err := HashSecret("same-secret")
	require.NoError(t, err)

	// Different stored values, both verify the original secret.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifySecret(h1, "same-secret"))
	assert.True(t, VerifySecret(h2, "same-secret"))
}

func TestVerifySecretMalformedHash(t *testing.T) {
	assert.False(t, VerifySecret("not-a-bcrypt-hash", "whatever"))
	assert.False(t, VerifySecret("", "whatever"))
}
