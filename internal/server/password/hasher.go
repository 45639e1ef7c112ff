// Package password provides one-way password hashing and verification for
// signup and signin, backed by bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/taskvault/internal/common"
)

// Password length bounds in bytes. The upper bound is bcrypt's input limit;
// longer inputs are rejected rather than silently truncated.
const (
	MinLength = 8
	MaxLength = 72
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash returns a salted hash of plaintext, or common.ErrWeakPassword
	// when the plaintext is outside the accepted length bounds.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. A nil error means a
	// match; comparison time does not depend on where a mismatch occurs.
	Verify(plaintext, hash string) error
}

// BcryptHasher implements Hasher using bcrypt with a configurable cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a bcrypt hasher. Costs outside bcrypt's valid
// range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) < MinLength || len(plaintext) > MaxLength {
		return "", common.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
