package wireseal

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/wireseal/profile-go/internal/crypto"
	"github.com/wireseal/profile-go/replay"
)

// Algorithm names accepted in deployment configuration.
const (
	// AlgorithmGCM selects the symmetric AES-256-GCM profile.
	AlgorithmGCM = "aes-gcm"
	// AlgorithmKEM selects the ML-KEM-768 profile.
	AlgorithmKEM = "ml-kem"
)

// duration wraps time.Duration for TOML decoding ("30s", "5m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config is the deployment configuration for a profile: key material,
// algorithm choice, obfuscation layout and replay-store wiring. Loading it
// and constructing a Profile from it is how a deployment swaps algorithms
// without rebuilding the pipeline.
type Config struct {
	// Algorithm selects the profile implementation: "aes-gcm" or "ml-kem".
	Algorithm string `toml:"algorithm"`

	// Key is the static profile key, base64url-encoded, 32 bytes.
	Key string `toml:"key"`

	// RecipientPublicKey is the peer's ML-KEM-768 public key (base64url),
	// required to send with the "ml-kem" algorithm.
	RecipientPublicKey string `toml:"recipient_public_key,omitempty"`

	// SecretKey is this side's ML-KEM-768 secret key (base64url), required
	// to receive with the "ml-kem" algorithm.
	SecretKey string `toml:"secret_key,omitempty"`

	// TimestampSkew bounds how stale a request timestamp may be before
	// phase-1 validation rejects it. Zero disables the age check.
	TimestampSkew duration `toml:"timestamp_skew,omitempty"`

	// CredentialHeaders names the headers secured in transit.
	CredentialHeaders []string `toml:"credential_headers,omitempty"`

	// Obfuscation configures the package transforms.
	Obfuscation ObfuscationConfig `toml:"obfuscation"`

	// Replay configures the replay-protection store.
	Replay ReplayConfig `toml:"replay"`
}

// ObfuscationConfig maps clear package field names to wire names per
// direction, with optional decoy fields injected on the way out.
type ObfuscationConfig struct {
	Request  map[string]string `toml:"request"`
	Response map[string]string `toml:"response"`
	Decoys   []string          `toml:"decoys"`
}

// ReplayConfig selects and parameterizes the replay store.
type ReplayConfig struct {
	// Driver is "memory", "sqlite", or empty for no store.
	Driver string `toml:"driver"`
	// Path is the database path for the sqlite driver.
	Path string `toml:"path"`
	// TTL is the retention window for seen identifiers.
	TTL duration `toml:"ttl"`
}

// LoadConfig reads a TOML deployment configuration from path.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// ParseConfig decodes a TOML deployment configuration from a string.
func ParseConfig(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Profile constructs the configured Profile. The returned store, if any, is
// owned by the profile's lifetime; callers that need to close a sqlite store
// should build it themselves and use the options API instead.
func (c *Config) Profile() (Profile, error) {
	key, err := crypto.FromBase64URL(c.Key)
	if err != nil {
		return nil, fmt.Errorf("decode profile key: %w", err)
	}

	opts, err := c.options()
	if err != nil {
		return nil, err
	}

	switch c.Algorithm {
	case AlgorithmGCM, "":
		return NewGCMProfile(key, opts...)

	case AlgorithmKEM:
		var recipient []byte
		if c.RecipientPublicKey != "" {
			recipient, err = crypto.FromBase64URL(c.RecipientPublicKey)
			if err != nil {
				return nil, fmt.Errorf("decode recipient public key: %w", err)
			}
		}

		var keypair *KEMKeypair
		if c.SecretKey != "" {
			secretKey, err := crypto.FromBase64URL(c.SecretKey)
			if err != nil {
				return nil, fmt.Errorf("decode secret key: %w", err)
			}
			keypair, err = KEMKeypairFromSecretKey(secretKey)
			if err != nil {
				return nil, err
			}
		}

		return NewKEMProfile(key, recipient, keypair, opts...)

	default:
		return nil, fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
}

func (c *Config) options() ([]Option, error) {
	var opts []Option

	if c.TimestampSkew.Duration > 0 {
		opts = append(opts, WithTimestampSkew(c.TimestampSkew.Duration))
	}
	if len(c.CredentialHeaders) > 0 {
		opts = append(opts, WithCredentialHeaders(c.CredentialHeaders...))
	}

	if len(c.Obfuscation.Request) > 0 {
		m, err := NewFieldMap(c.Obfuscation.Request, c.Obfuscation.Decoys...)
		if err != nil {
			return nil, fmt.Errorf("request field map: %w", err)
		}
		opts = append(opts, WithRequestFieldMap(m))
	}
	if len(c.Obfuscation.Response) > 0 {
		m, err := NewFieldMap(c.Obfuscation.Response, c.Obfuscation.Decoys...)
		if err != nil {
			return nil, fmt.Errorf("response field map: %w", err)
		}
		opts = append(opts, WithResponseFieldMap(m))
	}

	switch c.Replay.Driver {
	case "":
		// no store
	case "memory":
		opts = append(opts, WithReplayStore(replay.NewMemory(c.Replay.TTL.Duration)))
	case "sqlite":
		store, err := replay.OpenSQLite(c.Replay.Path, c.Replay.TTL.Duration)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithReplayStore(store))
	default:
		return nil, fmt.Errorf("unknown replay driver %q", c.Replay.Driver)
	}

	return opts, nil
}
