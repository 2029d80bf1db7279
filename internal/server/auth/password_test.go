package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, plain := range []string{"p1", "correct horse battery staple", "пароль", ""} {
		hash, err := HashPassword(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, hash)

		assert.True(t, CheckPassword(plain, hash), "plain %q must verify", plain)
		assert.False(t, CheckPassword(plain+"x", hash))
	}
}

func TestHashPassword_SaltsEveryCall(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("same", a))
	assert.True(t, CheckPassword("same", b))
}

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	hash, err := HashPassword("p1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))

	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("p1", ""))
	assert.False(t, CheckPassword("p1", "not-a-bcrypt-hash"))
}
