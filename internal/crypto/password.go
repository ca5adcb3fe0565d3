package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// SealPassword encrypts a credential for at-rest storage. The key is derived
// from the storage secret and the stored salt with PBKDF2-SHA-256, so the
// result never depends on per-message key material. Returns URL-safe base64
// of nonce || ciphertext || tag.
func SealPassword(secret, salt []byte, password string) (string, error) {
	if len(salt) != AtRestSaltSize {
		return "", fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), AtRestSaltSize)
	}

	key := pbkdf2.Key(secret, salt, PBKDF2Iterations, AESKeySize, sha256.New)

	sealed, err := SealAES(key, []byte(password), nil)
	if err != nil {
		return "", err
	}

	return ToBase64URL(sealed), nil
}

// OpenPassword reverses SealPassword given the same secret and stored salt.
func OpenPassword(secret, salt []byte, stored string) (string, error) {
	if len(salt) != AtRestSaltSize {
		return "", fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), AtRestSaltSize)
	}

	sealed, err := FromBase64URL(stored)
	if err != nil {
		return "", fmt.Errorf("decode stored credential: %w", err)
	}

	key := pbkdf2.Key(secret, salt, PBKDF2Iterations, AESKeySize, sha256.New)

	plaintext, err := OpenAES(key, sealed, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
