package wireseal

import (
	"errors"

	"github.com/wireseal/profile-go/internal/crypto"
)

// KEMKeypair is an ML-KEM-768 keypair for the asymmetric profile.
type KEMKeypair = crypto.Keypair

// GenerateKEMKeypair creates a fresh ML-KEM-768 keypair.
func GenerateKEMKeypair() (*KEMKeypair, error) {
	return crypto.GenerateKeypair()
}

// KEMKeypairFromSecretKey reconstructs a keypair from its secret key bytes.
func KEMKeypairFromSecretKey(secretKey []byte) (*KEMKeypair, error) {
	return crypto.KeypairFromSecretKey(secretKey)
}

// KEMProfile is the asymmetric profile: every message body is encrypted
// under a fresh ML-KEM-768 encapsulation against the recipient's public key,
// so compromising one message key exposes no other message. The KEM
// ciphertext travels in clear as a message variable / response vector; the
// HKDF salt is bound to it, so a swapped ciphertext fails decryption instead
// of yielding garbage.
//
// Header securing, integrity digests and at-rest storage still run off the
// static profile key, which both sides share.
type KEMProfile struct {
	*profileCore
	recipient []byte
	keypair   *KEMKeypair
}

// assert interface compliance at compile time
var _ Profile = (*KEMProfile)(nil)

// NewKEMProfile creates an asymmetric profile. The static key drives the
// non-cipher stages; recipient is the peer's ML-KEM-768 public key (nil on a
// receive-only instance) and keypair is this side's own (nil on a send-only
// instance).
func NewKEMProfile(key []byte, recipient []byte, keypair *KEMKeypair, opts ...Option) (*KEMProfile, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	if recipient == nil && keypair == nil {
		return nil, errors.New("kem profile needs a recipient public key, a keypair, or both")
	}
	if recipient != nil && len(recipient) != crypto.MLKEMPublicKeySize {
		return nil, crypto.ErrInvalidPublicKeySize
	}

	core, err := newProfileCore(key, opts...)
	if err != nil {
		return nil, err
	}

	return &KEMProfile{
		profileCore: core,
		recipient:   append([]byte(nil), recipient...),
		keypair:     keypair,
	}, nil
}

// EncryptRequest encapsulates a fresh shared secret against the recipient and
// seals the compacted body under a key derived from it. The KEM ciphertext is
// attached as a message variable for the decrypt side.
func (p *KEMProfile) EncryptRequest(compacted []byte, req *Request) ([]byte, *Request, error) {
	ciphertext, kemCt, err := p.seal(compacted, "request")
	if err != nil {
		return nil, nil, err
	}

	out := req.Clone()
	out.SetVariable(VarKEMCiphertext, crypto.ToBase64URL(kemCt))
	return ciphertext, out, nil
}

// DecryptRequest decapsulates the shared secret from the KEM ciphertext in
// the clear vectors and opens the body.
func (p *KEMProfile) DecryptRequest(ciphertext []byte, vectors Vectors) ([]byte, error) {
	return p.open(ciphertext, vectors, "request")
}

// EncryptResponse mirrors EncryptRequest; the KEM ciphertext travels as a
// response vector.
func (p *KEMProfile) EncryptResponse(compacted []byte, resp *Response) ([]byte, *Response, error) {
	ciphertext, kemCt, err := p.seal(compacted, "response")
	if err != nil {
		return nil, nil, err
	}

	out := resp.Clone()
	out.SetVector(VarKEMCiphertext, crypto.ToBase64URL(kemCt))
	return ciphertext, out, nil
}

// DecryptResponse reverses EncryptResponse.
func (p *KEMProfile) DecryptResponse(ciphertext []byte, vectors Vectors) ([]byte, error) {
	return p.open(ciphertext, vectors, "response")
}

func (p *KEMProfile) seal(compacted []byte, role string) (ciphertext, kemCt []byte, err error) {
	if len(p.recipient) == 0 {
		return nil, nil, errors.New("kem profile has no recipient public key")
	}

	kemCt, sharedSecret, err := crypto.Encapsulate(p.recipient)
	if err != nil {
		return nil, nil, err
	}

	key, err := crypto.DeriveMessageKey(sharedSecret, crypto.KEMSalt(kemCt), role)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err = crypto.SealAES(key, compacted, nil)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, kemCt, nil
}

func (p *KEMProfile) open(ciphertext []byte, vectors Vectors, role string) ([]byte, error) {
	if p.keypair == nil {
		return nil, &DecryptionError{Stage: role, Err: errors.New("kem profile has no keypair")}
	}

	encoded, ok := vectors.Get(VarKEMCiphertext)
	if !ok {
		return nil, &DecryptionError{Stage: role, Err: &MissingVectorError{Name: VarKEMCiphertext}}
	}

	kemCt, err := crypto.FromBase64URL(encoded)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}

	sharedSecret, err := p.keypair.Decapsulate(kemCt)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}

	key, err := crypto.DeriveMessageKey(sharedSecret, crypto.KEMSalt(kemCt), role)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}

	plaintext, err := crypto.OpenAES(key, ciphertext, nil)
	if err != nil {
		return nil, &DecryptionError{Stage: role, Err: err}
	}
	return plaintext, nil
}
