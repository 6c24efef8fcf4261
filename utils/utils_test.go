package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("coach@example.com"))
	assert.False(t, IsValidEmail("coach"))
	assert.False(t, IsValidEmail("Coach <coach@example.com>"))
	assert.False(t, IsValidEmail(""))
}
