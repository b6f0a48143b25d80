package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewToken returns a fresh high-entropy session token: 32 random bytes,
// hex-encoded. The raw token goes to the cookie only.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken computes the digest under which a session is stored. SHA-256 is
// enough here: the token itself is high-entropy, so brute-force resistance is
// not needed, unlike password hashing.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
