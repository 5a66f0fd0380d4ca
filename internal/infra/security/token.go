package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const tokenByteLength = 32

// GenerateToken returns a 256-bit random value rendered as a fixed-length
// hex string. Used for action tokens, session identifiers, and CSRF tokens.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// TokensEqual compares two tokens in constant time so attacker-supplied
// values cannot probe stored randomness through timing.
func TokensEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
