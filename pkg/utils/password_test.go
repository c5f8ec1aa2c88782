package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("harvest-season-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "harvest-season-2024", hash)

	assert.NoError(t, VerifyPassword("harvest-season-2024", hash))
	assert.Error(t, VerifyPassword("wrong-password", hash))
}

func TestBcryptCostFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_ROUNDS", "not-a-number")
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("secret123", hash))
}
