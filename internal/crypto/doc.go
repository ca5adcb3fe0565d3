// Package crypto provides the cryptographic primitives behind the wireseal
// security profiles: authenticated encryption, key derivation, integrity
// digests, post-quantum key encapsulation, and at-rest credential storage.
//
// # Algorithm Suite
//
//   - AES-256-GCM: authenticated encryption with associated data (AEAD)
//     for message bodies and secured credential headers.
//
//   - HKDF-SHA-512 (RFC 5869): derivation of per-message and per-role keys
//     from the profile secret or a KEM shared secret, with domain separation
//     via the info string.
//
//   - HMAC-SHA-256: deterministic integrity digest over the compacted
//     message, verified by the transport collaborator.
//
//   - ML-KEM-768 (NIST FIPS 203): post-quantum key encapsulation for the
//     asymmetric profile. Each message uses a fresh encapsulation, so
//     compromise of one message key does not expose others.
//
//   - PBKDF2-SHA-256: key derivation for at-rest credential storage,
//     parameterized by a stored salt that is never shared with per-message
//     key material.
//
// # Critical Security Notes
//
// AES-GCM nonces MUST be unique for each encryption with the same key. Nonce
// reuse completely breaks the security of AES-GCM. [SealAES] generates a
// fresh random nonce for every call; [SealAESWithNonce] exists for callers
// that manage nonces themselves and for tests.
//
// Keys derived for one pipeline role (message body, credential header,
// integrity digest) are domain separated by [DeriveMessageKey]; a key for one
// role can never be used to open material sealed under another.
package crypto
