package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const userCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomHex returns n random bytes hex-encoded
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// newUserCode returns a public user code like USR-4F9K2Q
func newUserCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = userCodeAlphabet[int(b[i])%len(userCodeAlphabet)]
	}
	return "USR-" + string(b), nil
}

// placeholderHash is stored for accounts created at approval time. It is not a
// bcrypt hash, so no password verifies against it until the access link sets one.
func placeholderHash() (string, error) {
	h, err := randomHex(16)
	if err != nil {
		return "", err
	}
	return "!" + h, nil
}

// isPlaceholderHash reports whether the account still has no usable password
func isPlaceholderHash(hash string) bool {
	return strings.HasPrefix(hash, "!")
}
