package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HMACSHA256 computes an HMAC-SHA-256 digest over message and returns it as
// URL-safe base64. Identical input always yields identical output.
func HMACSHA256(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return ToBase64URL(mac.Sum(nil))
}

// VerifyHMACSHA256 reports whether digest matches the HMAC-SHA-256 of message
// under key. Comparison is constant time.
func VerifyHMACSHA256(key, message []byte, digest string) bool {
	want, err := FromBase64URL(digest)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), want)
}
