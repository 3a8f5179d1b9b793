package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidAPIKey is returned for unknown origins and wrong secrets alike.
var ErrInvalidAPIKey = errors.New("invalid api key")

// dummyHash is compared against when the origin is unknown, so a miss
// costs the same as a wrong secret.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("slide-relay-unknown-origin"), bcrypt.DefaultCost)

// EdgeKeyVerifier authenticates edge agents by API key. A key has the form
// "<originId>:<secret>"; the secret is checked against a bcrypt hash
// configured per origin.
type EdgeKeyVerifier struct {
	hashes map[string][]byte
}

// NewEdgeKeyVerifier creates a verifier from origin → bcrypt hash.
func NewEdgeKeyVerifier(hashes map[string]string) *EdgeKeyVerifier {
	v := &EdgeKeyVerifier{hashes: make(map[string][]byte, len(hashes))}
	for origin, hash := range hashes {
		v.hashes[origin] = []byte(hash)
	}
	return v
}

// Verify returns the origin a key belongs to.
func (v *EdgeKeyVerifier) Verify(key string) (string, error) {
	origin, secret, ok := strings.Cut(key, ":")
	if !ok || origin == "" || secret == "" {
		return "", ErrInvalidAPIKey
	}

	hash, known := v.hashes[origin]
	if !known {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
		return "", ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); err != nil {
		return "", ErrInvalidAPIKey
	}
	return origin, nil
}

// Origins returns the number of configured origins.
func (v *EdgeKeyVerifier) Origins() int { return len(v.hashes) }

// HashAPIKeySecret returns the bcrypt hash to configure for secret.
func HashAPIKeySecret(secret string) (string, error) {
	if len(secret) < 16 {
		return "", errors.New("secret must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}
