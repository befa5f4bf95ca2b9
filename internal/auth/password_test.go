package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh salt per hash")
	assert.NotContains(t, first, "hunter2")

	assert.True(t, CheckPassword("hunter2", first))
	assert.True(t, CheckPassword("hunter2", second))
	assert.False(t, CheckPassword("hunter3", first))
	assert.False(t, CheckPassword("hunter2", "not-a-hash"))
}
