package crypto

import (
	"crypto/rand"
	"testing"
)

func TestHMACSHA256_Deterministic(t *testing.T) {
	key := make([]byte, HMACKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	message := []byte("the compacted message")

	first := HMACSHA256(key, message)
	second := HMACSHA256(key, message)

	if first != second {
		t.Errorf("digest not deterministic: %q != %q", first, second)
	}
}

func TestHMACSHA256_DifferentInputsDiffer(t *testing.T) {
	key := make([]byte, HMACKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	a := HMACSHA256(key, []byte("message a"))
	b := HMACSHA256(key, []byte("message b"))

	if a == b {
		t.Error("different messages produced the same digest")
	}
}

func TestVerifyHMACSHA256(t *testing.T) {
	key := make([]byte, HMACKeySize)
	otherKey := make([]byte, HMACKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	if _, err := rand.Read(otherKey); err != nil {
		t.Fatal(err)
	}

	message := []byte("payload")
	digest := HMACSHA256(key, message)

	tests := []struct {
		name    string
		key     []byte
		message []byte
		digest  string
		want    bool
	}{
		{"valid", key, message, digest, true},
		{"wrong key", otherKey, message, digest, false},
		{"tampered message", key, []byte("payloaf"), digest, false},
		{"garbage digest", key, message, "not base64!!", false},
		{"empty digest", key, message, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyHMACSHA256(tt.key, tt.message, tt.digest); got != tt.want {
				t.Errorf("VerifyHMACSHA256() = %v, want %v", got, tt.want)
			}
		})
	}
}
