package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// TokenBytes is the entropy of a resolver token: 24 random bytes encode
// to ~32 base64url characters.
const TokenBytes = 24

// MakeRandHexString returns a hex string built from size random bytes.
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandTokenString returns an unpadded base64url string built from
// size random bytes. Used for resolver token strings.
func MakeRandTokenString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MaskToken renders a token safe for operator-facing logs: first and
// last four characters with the middle elided. Short strings are fully
// masked.
func MaskToken(raw string) string {
	if raw == "" {
		return ""
	}
	if len(raw) <= 8 {
		return "…"
	}
	return raw[:4] + "…" + raw[len(raw)-4:]
}
