package wireseal

import (
	"time"
)

// Well-known message variable names used by the shipped profiles.
const (
	// VarMessageID is the anti-replay / correlation token.
	VarMessageID = "message_id"
	// VarTimestamp is the pre-unsecure signal checked by phase-1 validation.
	VarTimestamp = "timestamp"
	// VarSalt carries the per-message HKDF salt of the symmetric profile.
	VarSalt = "salt"
	// VarKEMCiphertext carries the ML-KEM-768 ciphertext of the asymmetric
	// profile.
	VarKEMCiphertext = "ct_kem"
	// VarStoredSalt is the auxiliary vector consumed by the at-rest
	// credential pair.
	VarStoredSalt = "stored_salt"
)

// defaultCredentialHeader is the header SecureRequest protects when no
// WithCredentialHeaders option is given.
const defaultCredentialHeader = "password"

// profileConfig holds the immutable configuration shared by the shipped
// profiles. It is populated once at construction; nothing mutates it
// afterwards, which is what makes a profile safe to share across concurrent
// message flows.
type profileConfig struct {
	store             ReplayStore
	requestFields     *FieldMap
	responseFields    *FieldMap
	skew              time.Duration
	credentialHeaders []string
	atRestSecret      []byte
	now               func() time.Time
}

func defaultProfileConfig() profileConfig {
	return profileConfig{
		credentialHeaders: []string{defaultCredentialHeader},
		now:               time.Now,
	}
}

// Option configures a profile at construction.
type Option func(*profileConfig)

// WithReplayStore sets the replay-protection store consulted by
// FinalInvalidation. Without a store, phase-2 validation accepts every
// request that reaches it.
func WithReplayStore(store ReplayStore) Option {
	return func(c *profileConfig) {
		c.store = store
	}
}

// WithRequestFieldMap sets the package transform for the request direction.
// Default: identity over the clear field names.
func WithRequestFieldMap(m *FieldMap) Option {
	return func(c *profileConfig) {
		c.requestFields = m
	}
}

// WithResponseFieldMap sets the package transform for the response direction.
// Default: identity over the clear field names.
func WithResponseFieldMap(m *FieldMap) Option {
	return func(c *profileConfig) {
		c.responseFields = m
	}
}

// WithTimestampSkew bounds how far a request's timestamp may lag the
// receiver's clock before phase-1 validation rejects it. Zero disables the
// age check; the equality check against the clear vectors always runs.
func WithTimestampSkew(skew time.Duration) Option {
	return func(c *profileConfig) {
		c.skew = skew
	}
}

// WithCredentialHeaders names the headers SecureRequest protects in transit.
// Default: "password".
func WithCredentialHeaders(names ...string) Option {
	return func(c *profileConfig) {
		c.credentialHeaders = append([]string(nil), names...)
	}
}

// WithAtRestSecret sets the secret for the at-rest credential pair. Default:
// a key derived from the profile key for that role, so at-rest storage never
// shares key material with per-message encryption.
func WithAtRestSecret(secret []byte) Option {
	return func(c *profileConfig) {
		c.atRestSecret = append([]byte(nil), secret...)
	}
}

// WithClock overrides the clock used for timestamps. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *profileConfig) {
		c.now = now
	}
}
