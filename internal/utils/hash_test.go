package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckSecret(hash, "hunter2"))
	assert.False(t, CheckSecret(hash, "hunter3"))
}

func TestCheckSecretBadHash(t *testing.T) {
	assert.False(t, CheckSecret("not-a-bcrypt-hash", "hunter2"))
}
