package wireseal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/wireseal/profile-go/internal/crypto"
)

// profileCore implements every stage that does not depend on the cipher
// choice: header securing, the two validation phases, package transforms,
// response correlation and at-rest credential storage. The shipped profiles
// embed it and add their cipher stages on top; the Profile interface itself
// stays flat.
type profileCore struct {
	cfg          profileConfig
	headerKey    []byte
	macKey       []byte
	atRestSecret []byte
}

func newProfileCore(key []byte, opts ...Option) (*profileCore, error) {
	cfg := defaultProfileConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	headerKey, err := crypto.DeriveMessageKey(key, nil, "header")
	if err != nil {
		return nil, fmt.Errorf("derive header key: %w", err)
	}

	macKey, err := crypto.DeriveMessageKey(key, nil, "integrity")
	if err != nil {
		return nil, fmt.Errorf("derive integrity key: %w", err)
	}

	atRestSecret := cfg.atRestSecret
	if atRestSecret == nil {
		atRestSecret, err = crypto.DeriveMessageKey(key, nil, "at-rest")
		if err != nil {
			return nil, fmt.Errorf("derive at-rest secret: %w", err)
		}
	}

	if cfg.requestFields == nil {
		cfg.requestFields, err = IdentityFieldMap(FieldBody, FieldDigest, FieldVectors)
		if err != nil {
			return nil, err
		}
	}
	if cfg.responseFields == nil {
		cfg.responseFields, err = IdentityFieldMap(FieldBody, FieldDigest, FieldVectors)
		if err != nil {
			return nil, err
		}
	}

	return &profileCore{
		cfg:          cfg,
		headerKey:    headerKey,
		macKey:       macKey,
		atRestSecret: atRestSecret,
	}, nil
}

// SecureRequest seals the credential headers under the header key and
// attaches the anti-replay token and timestamp as message variables.
func (c *profileCore) SecureRequest(req *Request) (*Request, error) {
	out := req.Clone()

	for _, name := range c.cfg.credentialHeaders {
		value, ok := out.Header(name)
		if !ok {
			continue
		}
		sealed, err := crypto.SealAES(c.headerKey, []byte(value), nil)
		if err != nil {
			return nil, fmt.Errorf("secure header %q: %w", name, err)
		}
		out.SetHeader(name, crypto.ToBase64URL(sealed))
	}

	if _, ok := out.Variable(VarMessageID); !ok {
		out.SetVariable(VarMessageID, uuid.NewString())
	}
	if _, ok := out.Variable(VarTimestamp); !ok {
		out.SetVariable(VarTimestamp, strconv.FormatInt(c.cfg.now().Unix(), 10))
	}

	return out, nil
}

// UnsecureRequest restores the credential headers to clear text.
func (c *profileCore) UnsecureRequest(req *Request) (*Request, error) {
	out := req.Clone()

	for _, name := range c.cfg.credentialHeaders {
		value, ok := out.Header(name)
		if !ok {
			continue
		}
		sealed, err := crypto.FromBase64URL(value)
		if err != nil {
			return nil, &DecryptionError{Stage: "header", Err: err}
		}
		clear, err := crypto.OpenAES(c.headerKey, sealed, nil)
		if err != nil {
			return nil, &DecryptionError{Stage: "header", Err: err}
		}
		out.SetHeader(name, string(clear))
	}

	return out, nil
}

// GenerateHMAC computes the integrity digest over the unencrypted compacted
// message. Deterministic: identical input yields identical output.
func (c *profileCore) GenerateHMAC(compacted []byte) string {
	return crypto.HMACSHA256(c.macKey, compacted)
}

// InvalidateRequest is validation phase 1. It rejects when the timestamp in
// the clear vectors disagrees with the authenticated copy inside the request,
// or when the timestamp is older than the configured skew. Both checks are
// cheap; nothing here touches credential material.
func (c *profileCore) InvalidateRequest(req *Request, vectors Vectors) bool {
	reqTS, ok := req.Variable(VarTimestamp)
	if !ok {
		return true
	}
	vecTS, ok := vectors.Get(VarTimestamp)
	if !ok {
		return true
	}
	if reqTS != vecTS {
		return true
	}

	if c.cfg.skew > 0 {
		ts, err := strconv.ParseInt(reqTS, 10, 64)
		if err != nil {
			return true
		}
		age := c.cfg.now().Unix() - ts
		if age < 0 {
			age = -age
		}
		if age > int64(c.cfg.skew.Seconds()) {
			return true
		}
	}

	return false
}

// FinalInvalidation is validation phase 2. It consults the replay-protection
// store, which may block; the context bounds that lookup. A request without a
// message identifier is rejected outright.
func (c *profileCore) FinalInvalidation(ctx context.Context, req *Request) (bool, error) {
	id, ok := req.Variable(VarMessageID)
	if !ok || id == "" {
		return true, nil
	}

	if c.cfg.store == nil {
		return false, nil
	}

	seen, err := c.cfg.store.Seen(ctx, id)
	if err != nil {
		return false, fmt.Errorf("replay store lookup: %w", err)
	}
	if seen {
		return true, nil
	}

	if err := c.cfg.store.Remember(ctx, id); err != nil {
		return false, fmt.Errorf("replay store remember: %w", err)
	}
	return false, nil
}

// ObfuscateRequestPackage applies the request-direction field map.
func (c *profileCore) ObfuscateRequestPackage(pkg *Package) (*Package, error) {
	return c.cfg.requestFields.Obfuscate(pkg)
}

// DeobfuscateRequestPackage reverses the request-direction field map.
func (c *profileCore) DeobfuscateRequestPackage(pkg *Package) (*Package, error) {
	return c.cfg.requestFields.Deobfuscate(pkg)
}

// ObfuscateResponsePackage applies the response-direction field map.
func (c *profileCore) ObfuscateResponsePackage(pkg *Package) (*Package, error) {
	return c.cfg.responseFields.Obfuscate(pkg)
}

// DeobfuscateResponsePackage reverses the response-direction field map.
func (c *profileCore) DeobfuscateResponsePackage(pkg *Package) (*Package, error) {
	return c.cfg.responseFields.Deobfuscate(pkg)
}

// PrepareResponse copies the correlation token from the originating request
// into the response's vector namespace. Unsolicited responses (nil request)
// pass through unchanged.
func (c *profileCore) PrepareResponse(resp *Response, req *Request) (*Response, error) {
	out := resp.Clone()
	if req == nil {
		return out, nil
	}
	if id, ok := req.Variable(VarMessageID); ok {
		out.SetVector(VarMessageID, id)
	}
	return out, nil
}

// ValidateResponse accepts a response if and only if its correlation vector
// equals the one the matching request sent.
func (c *profileCore) ValidateResponse(resp *Response, sent Vectors) bool {
	want, ok := sent.Get(VarMessageID)
	if !ok {
		return false
	}
	got, ok := resp.Vector(VarMessageID)
	if !ok {
		return false
	}
	return got == want
}

// EncryptServerPassword seals a credential for at-rest storage. The stored
// salt comes from the auxiliary vector set, never from message vectors.
func (c *profileCore) EncryptServerPassword(password string, vectors Vectors) (string, error) {
	salt, err := storedSalt(vectors)
	if err != nil {
		return "", err
	}
	stored, err := crypto.SealPassword(c.atRestSecret, salt, password)
	if err != nil {
		return "", &DecryptionError{Stage: "password", Err: err}
	}
	return stored, nil
}

// DecryptServerPassword reverses EncryptServerPassword.
func (c *profileCore) DecryptServerPassword(stored string, vectors Vectors) (string, error) {
	salt, err := storedSalt(vectors)
	if err != nil {
		return "", err
	}
	password, err := crypto.OpenPassword(c.atRestSecret, salt, stored)
	if err != nil {
		return "", &DecryptionError{Stage: "password", Err: err}
	}
	return password, nil
}

func storedSalt(vectors Vectors) ([]byte, error) {
	encoded, ok := vectors.Get(VarStoredSalt)
	if !ok {
		return nil, &MissingVectorError{Name: VarStoredSalt}
	}
	salt, err := crypto.FromBase64URL(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode stored salt: %w", err)
	}
	return salt, nil
}
