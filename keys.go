package wireseal

import (
	"crypto/rand"
	"fmt"

	"github.com/wireseal/profile-go/internal/crypto"
)

// GenerateKey returns a fresh random 32-byte profile key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, crypto.AESKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// EncodeKey encodes key material as base64url without padding, the encoding
// used in deployment configuration.
func EncodeKey(key []byte) string {
	return crypto.ToBase64URL(key)
}

// DecodeKey decodes base64url-encoded key material.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := crypto.FromBase64URL(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return key, nil
}
