package common

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

var ErrInvalidSecretLength = errors.New("secret length must be positive")

// TokenDigest returns the hex HMAC-SHA256 of token under key.
func TokenDigest(key string, token string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateSecret returns n random URL-safe characters.
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidSecretLength
	}
	raw := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:n], nil
}
