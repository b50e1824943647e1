// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned for passwords bcrypt cannot hash without truncation.
var ErrTooLong = errors.New("password exceeds 72 bytes")

type Hasher struct {
	Cost int

	once        sync.Once
	placeholder string
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

// Hash returns a salted digest; hashing the same plaintext twice yields
// different digests.
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest is a
// mismatch, never a panic.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// Placeholder returns a digest at the hasher's cost that no caller knows
// the plaintext of. Verifying against it costs the same as a real check, so
// a login for an unknown account takes as long as a wrong password.
func (h *Hasher) Placeholder() string {
	h.once.Do(func() {
		digest, err := bcrypt.GenerateFromPassword([]byte("placeholder-never-matches"), h.Cost)
		if err == nil {
			h.placeholder = string(digest)
		}
	})
	return h.placeholder
}
