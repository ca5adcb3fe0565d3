package wireseal

import (
	"crypto/rand"
	"fmt"

	"github.com/wireseal/profile-go/internal/crypto"
)

// GCMProfile is the default symmetric profile. Each message body is encrypted
// with AES-256-GCM under a key derived with HKDF-SHA-512 from the static
// profile key and a fresh per-message salt; the salt travels in clear as a
// message variable and the nonce is embedded in the sealed value. Integrity
// digests are HMAC-SHA-256 under a separately derived key.
//
// The profile holds only immutable configuration, so one instance serves all
// concurrent message flows without locking.
type GCMProfile struct {
	*profileCore
	key []byte
}

// assert interface compliance at compile time
var _ Profile = (*GCMProfile)(nil)

// NewGCMProfile creates a symmetric profile from a 32-byte key.
func NewGCMProfile(key []byte, opts ...Option) (*GCMProfile, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	if len(key) != crypto.AESKeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrMissingKey, crypto.AESKeySize, len(key))
	}

	core, err := newProfileCore(key, opts...)
	if err != nil {
		return nil, err
	}

	return &GCMProfile{
		profileCore: core,
		key:         append([]byte(nil), key...),
	}, nil
}

// EncryptRequest derives a fresh per-message key and seals the compacted
// body. The salt the decrypt side needs is attached as a message variable on
// the returned request.
func (p *GCMProfile) EncryptRequest(compacted []byte, req *Request) ([]byte, *Request, error) {
	ciphertext, salt, err := p.seal(compacted, "request")
	if err != nil {
		return nil, nil, err
	}

	out := req.Clone()
	out.SetVariable(VarSalt, crypto.ToBase64URL(salt))
	return ciphertext, out, nil
}

// DecryptRequest reverses EncryptRequest using the salt from the clear
// vectors.
func (p *GCMProfile) DecryptRequest(ciphertext []byte, vectors Vectors) ([]byte, error) {
	return p.open(ciphertext, vectors, "request")
}

// EncryptResponse mirrors EncryptRequest in the response direction; the salt
// is attached as a response vector.
func (p *GCMProfile) EncryptResponse(compacted []byte, resp *Response) ([]byte, *Response, error) {
	ciphertext, salt, err := p.seal(compacted, "response")
	if err != nil {
		return nil, nil, err
	}

	out := resp.Clone()
	out.SetVector(VarSalt, crypto.ToBase64URL(salt))
	return ciphertext, out, nil
}

// DecryptResponse reverses EncryptResponse.
func (p *GCMProfile) DecryptResponse(ciphertext []byte, vectors Vectors) ([]byte, error) {
	return p.open(ciphertext, vectors, "response")
}

func (p *GCMProfile) seal(compacted []byte, role string) (ciphertext, salt []byte, err error) {
	salt = make([]byte, crypto.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	key, err := crypto.DeriveMessageKey(p.key, salt, role)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err = crypto.SealAES(key, compacted, nil)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, salt, nil
}

func (p *GCMProfile) open(ciphertext []byte, vectors Vectors, role string) ([]byte, error) {
	encoded, ok := vectors.Get(VarSalt)
	if !ok {
		return nil, &DecryptionError{Stage: role, Err: &MissingVectorError{Name: VarSalt}}
	}

	salt, err := crypto.FromBase64URL(encoded)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}

	key, err := crypto.DeriveMessageKey(p.key, salt, role)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}

	plaintext, err := crypto.OpenAES(key, ciphertext, nil)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}
	return plaintext, nil
}
