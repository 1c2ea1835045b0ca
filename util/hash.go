// Package util provides small helpers for the backend.
package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// HashCredential digests a credential for storage. The digest is
// deterministic so stored values can be matched with an equality filter.
func HashCredential(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// NewAuthKey generates a random session-restore key
func NewAuthKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generating auth key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
