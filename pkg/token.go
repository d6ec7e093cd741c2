package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrInvalidLength = errors.New("invalid length")

// GenerateRandomString returns a URL-safe random string of exactly n characters,
// read from crypto/rand. Used for session tokens.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidLength
	}
	// base64 yields 4 chars per 3 bytes
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
