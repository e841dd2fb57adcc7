package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const refreshTokenBytes = 32

// NewRefreshToken returns a random opaque token for session storage.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
