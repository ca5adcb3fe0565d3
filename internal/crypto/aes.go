package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// SealAES encrypts data using AES-256-GCM with a freshly generated nonce.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes). The aad is
// authenticated but not encrypted; pass nil when there is none.
func SealAES(key, plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, AESNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return SealAESWithNonce(key, plaintext, nonce, aad)
}

// SealAESWithNonce encrypts data using AES-256-GCM with a caller-supplied
// nonce. The nonce MUST be unique per key; reuse breaks GCM entirely.
func SealAESWithNonce(key, plaintext, nonce, aad []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, aad)
	return append(nonce, ciphertext...), nil
}

// OpenAES decrypts data produced by SealAES. The ciphertext format is:
// nonce (12 bytes) || ciphertext || tag (16 bytes).
func OpenAES(key, sealed, aad []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	if len(sealed) < AESNonceSize+AESTagSize {
		return nil, ErrCiphertextTooShort
	}

	nonce := sealed[:AESNonceSize]
	ciphertextWithTag := sealed[AESNonceSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertextWithTag, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
