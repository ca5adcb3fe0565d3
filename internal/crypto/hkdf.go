package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a key using HKDF-SHA-512.
//
// Parameters:
//   - secret: the input key material (e.g., a profile key or KEM shared secret)
//   - salt: optional salt value; if empty, a zero-filled salt is used
//   - info: context/application-specific info for domain separation
//   - length: desired output key length in bytes
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// DeriveMessageKey derives a per-message AES key from the profile secret and
// a per-message salt. The info string binds the key to its pipeline role so
// that, for example, a header key can never decrypt a message body.
func DeriveMessageKey(secret, salt []byte, role string) ([]byte, error) {
	info := make([]byte, 0, len(HKDFContext)+1+len(role))
	info = append(info, HKDFContext...)
	info = append(info, ':')
	info = append(info, role...)
	return DeriveKey(secret, salt, info, AESKeySize)
}
