package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			h, err := NewPasswordHasher(algorithm)
			require.NoError(t, err)

			hash, err := h.Hash("P@ssw0rd1")
			require.NoError(t, err)
			assert.NotEqual(t, "P@ssw0rd1", hash)

			ok, err := h.Compare(hash, "P@ssw0rd1")
			require.NoError(t, err)
			assert.True(t, ok)

			for _, other := range []string{"P@ssw0rd2", "p@ssw0rd1", "", "P@ssw0rd1 "} {
				ok, err := h.Compare(hash, other)
				require.NoError(t, err)
				assert.False(t, ok, "candidate %q must not match", other)
			}
		})
	}
}

func TestPasswordHasher_FreshSaltPerHash(t *testing.T) {
	h, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)

	first, err := h.Hash("P@ssw0rd1")
	require.NoError(t, err)
	second, err := h.Hash("P@ssw0rd1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_DefaultsAndPrefixes(t *testing.T) {
	h, err := NewPasswordHasher("")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmBcrypt, h.Algorithm())

	hash, err := h.Hash("P@ssw0rd1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "unexpected bcrypt hash %q", hash)

	argon, err := NewPasswordHasher(AlgorithmArgon2id)
	require.NoError(t, err)
	hash, err = argon.Hash("P@ssw0rd1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestPasswordHasher_VerifiesEitherAlgorithm(t *testing.T) {
	bcryptHasher, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)
	argonHasher, err := NewPasswordHasher(AlgorithmArgon2id)
	require.NoError(t, err)

	bcryptHash, err := bcryptHasher.Hash("P@ssw0rd1")
	require.NoError(t, err)

	ok, err := argonHasher.Compare(bcryptHash, "P@ssw0rd1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_Errors(t *testing.T) {
	_, err := NewPasswordHasher("md5")
	require.Error(t, err)

	h, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)

	_, err = h.Compare("not-a-hash", "P@ssw0rd1")
	assert.Error(t, err)

	_, err = h.Compare("$argon2id$broken", "P@ssw0rd1")
	assert.Error(t, err)
}

func TestPasswordHasher_BcryptLengthLimit(t *testing.T) {
	h, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)

	atLimit := "P@ssw0rd1" + strings.Repeat("a", MaxPasswordBytes-9)
	hash, err := h.Hash(atLimit)
	require.NoError(t, err)
	ok, err := h.Compare(hash, atLimit)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = h.Hash(atLimit + "a")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	argon, err := NewPasswordHasher(AlgorithmArgon2id)
	require.NoError(t, err)
	_, err = argon.Hash(atLimit + "a")
	assert.NoError(t, err)
}
