package wireseal

import (
	"bytes"
	"errors"
	"testing"
)

func testKEMPair(t *testing.T) (sender, receiver *KEMProfile) {
	t.Helper()

	key := testKey(t)
	keypair, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatal(err)
	}

	sender, err = NewKEMProfile(key, keypair.PublicKey, nil)
	if err != nil {
		t.Fatal(err)
	}
	receiver, err = NewKEMProfile(key, nil, keypair)
	if err != nil {
		t.Fatal(err)
	}
	return sender, receiver
}

func TestNewKEMProfile_Validation(t *testing.T) {
	key := testKey(t)

	if _, err := NewKEMProfile(nil, nil, nil); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}

	if _, err := NewKEMProfile(key, nil, nil); err == nil {
		t.Error("expected error with neither recipient nor keypair")
	}

	if _, err := NewKEMProfile(key, make([]byte, 10), nil); err == nil {
		t.Error("expected error for malformed recipient public key")
	}
}

func TestKEMProfile_RequestRoundTrip(t *testing.T) {
	sender, receiver := testKEMPair(t)

	compacted := []byte(`{"headers":{},"body":"aGVsbG8"}`)

	ciphertext, updated, err := sender.EncryptRequest(compacted, NewRequest(nil))
	if err != nil {
		t.Fatalf("EncryptRequest() error = %v", err)
	}

	if _, ok := updated.Variable(VarKEMCiphertext); !ok {
		t.Error("kem ciphertext not attached as message variable")
	}

	plaintext, err := receiver.DecryptRequest(ciphertext, updated.Variables())
	if err != nil {
		t.Fatalf("DecryptRequest() error = %v", err)
	}

	if !bytes.Equal(plaintext, compacted) {
		t.Errorf("round trip = %q, want %q", plaintext, compacted)
	}
}

func TestKEMProfile_ResponseRoundTrip(t *testing.T) {
	sender, receiver := testKEMPair(t)

	compacted := []byte(`{"body":"cmVzcG9uc2U"}`)

	ciphertext, updated, err := sender.EncryptResponse(compacted, NewResponse(nil))
	if err != nil {
		t.Fatalf("EncryptResponse() error = %v", err)
	}

	plaintext, err := receiver.DecryptResponse(ciphertext, updated.Vectors())
	if err != nil {
		t.Fatalf("DecryptResponse() error = %v", err)
	}

	if !bytes.Equal(plaintext, compacted) {
		t.Errorf("round trip = %q, want %q", plaintext, compacted)
	}
}

func TestKEMProfile_WrongKeypairFails(t *testing.T) {
	sender, _ := testKEMPair(t)

	otherKeypair, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatal(err)
	}
	wrongReceiver, err := NewKEMProfile(testKey(t), nil, otherKeypair)
	if err != nil {
		t.Fatal(err)
	}

	ciphertext, updated, err := sender.EncryptRequest([]byte("compacted"), NewRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	_, err = wrongReceiver.DecryptRequest(ciphertext, updated.Variables())
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestKEMProfile_SendOnlyCannotDecrypt(t *testing.T) {
	sender, _ := testKEMPair(t)

	vectors := NewVectors(map[string]string{VarKEMCiphertext: "abc"})
	_, err := sender.DecryptRequest([]byte("junk"), vectors)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestKEMProfile_ReceiveOnlyCannotEncrypt(t *testing.T) {
	_, receiver := testKEMPair(t)

	_, _, err := receiver.EncryptRequest([]byte("compacted"), NewRequest(nil))
	if err == nil {
		t.Error("expected error encrypting without a recipient public key")
	}
}

func TestKEMProfile_DecryptRequest_MissingKEMVector(t *testing.T) {
	_, receiver := testKEMPair(t)

	_, err := receiver.DecryptRequest([]byte("junk"), NewVectors(nil))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestKEMProfile_SwappedKEMCiphertextFails(t *testing.T) {
	sender, receiver := testKEMPair(t)

	ct1, req1, err := sender.EncryptRequest([]byte("first"), NewRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	_, req2, err := sender.EncryptRequest([]byte("second"), NewRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	// Body of message 1 with the KEM ciphertext of message 2: the derived
	// key changes, so decryption must fail rather than return garbage.
	_, err = receiver.DecryptRequest(ct1, req2.Variables())
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}

	// Sanity: the right pairing still works.
	if _, err := receiver.DecryptRequest(ct1, req1.Variables()); err != nil {
		t.Errorf("matching pairing failed: %v", err)
	}
}
