package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// BcryptCost matches the cost the accounts were historically hashed with.
const BcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher hashes new passwords with the configured algorithm and verifies
// candidates against hashes produced by any supported algorithm.
type PasswordHasher struct {
	algorithm   string
	bcryptCost  int
	argonParams *argon2id.Params
}

// NewPasswordHasher creates a hasher producing hashes with the named algorithm.
func NewPasswordHasher(algorithm string) (*PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return &PasswordHasher{algorithm: AlgorithmBcrypt, bcryptCost: BcryptCost, argonParams: argon2id.DefaultParams}, nil
	case AlgorithmArgon2id:
		return &PasswordHasher{algorithm: AlgorithmArgon2id, bcryptCost: BcryptCost, argonParams: argon2id.DefaultParams}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}
}

// Algorithm reports the algorithm used for new hashes.
func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns a salted one-way hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == AlgorithmArgon2id {
		hash, err := argon2id.CreateHash(password, h.argonParams)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return hash, nil
	}

	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. A mismatch is not an error;
// only malformed hashes are.
func (h *PasswordHasher) Compare(hash, password string) (bool, error) {
	if strings.HasPrefix(hash, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, fmt.Errorf("failed to check password: %w", err)
		}
		return match, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check password: %w", err)
	}
}
