// Package password provides the credential-hashing capability consumed by
// the authentication services. The primitive is pluggable behind Hasher;
// the shipped implementation is bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash derives a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Compare reports whether password matches the stored hash. The
	// comparison takes the same time whether or not it matches.
	Compare(hash, password string) bool

	// DummyCompare burns the cost of a real comparison against a fixed
	// hash. Called when the user under verification does not exist, so
	// "no such user" and "wrong password" are indistinguishable by timing.
	DummyCompare(password string)
}

type BcryptHasher struct {
	cost int
}

// dummyHash is a bcrypt hash of a value no caller can submit; it only
// exists to give DummyCompare realistic work.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *BcryptHasher) DummyCompare(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
