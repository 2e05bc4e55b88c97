package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	hash, err := HashPasswordWithParams("p@ss1", fastParams)
	require.NoError(t, err)
	assert.NotContains(t, string(hash), "p@ss1")

	ok, err := VerifyPassword("p@ss1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMismatchIsNotAnError(t *testing.T) {
	hash, err := HashPasswordWithParams("p@ss1", fastParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPasswordWithParams("same", fastParams)
	require.NoError(t, err)
	b, err := HashPasswordWithParams("same", fastParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, stored := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		ok, err := VerifyPassword("secret", []byte(stored))
		assert.ErrorIs(t, err, ErrMalformedHash, stored)
		assert.False(t, ok)
	}
}
