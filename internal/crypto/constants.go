package crypto

const (
	// HKDFContext is the context string used in HKDF key derivation
	// for domain separation.
	HKDFContext = "wireseal:profile:v1"

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32
	// MLKEMSeedSize is the size of the encapsulation seed in bytes.
	MLKEMSeedSize = 32

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// SaltSize is the size of the per-message salt carried as a message
	// variable by the symmetric profile.
	SaltSize = 16

	// HMACKeySize is the size of the derived integrity key in bytes.
	HMACKeySize = 32

	// PBKDF2Iterations is the iteration count for at-rest credential key
	// derivation. OWASP recommends 600,000+ for PBKDF2-SHA-256.
	PBKDF2Iterations = 600000

	// AtRestSaltSize is the size of the stored salt for at-rest credential
	// encryption.
	AtRestSaltSize = 32

	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152
)
