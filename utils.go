package kbucket

import (
	"crypto/rand"
	"crypto/sha1"

	"github.com/pkg/errors"
)

// GenerateID generates a random 160-bit identifier (SHA-1 over 20
// cryptographically random bytes), the default local-id policy for a
// table constructed without an explicit Config.LocalID.
func GenerateID() ([]byte, error) {
	b, err := GenerateRandomBytes(20)
	if err != nil {
		return nil, errors.Wrap(err, "kbucket: generate id")
	}

	h := sha1.Sum(b)

	return h[:], nil
}

// GenerateRandomBytes returns n securely generated random bytes. It fails
// if the system's secure random source is unavailable, in which case the
// caller should not continue.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "kbucket: generate random bytes")
	}

	return b, nil
}
