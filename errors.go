package wireseal

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingKey is returned when a profile is constructed without the
	// key material its cipher stage requires.
	ErrMissingKey = errors.New("profile key material is required")

	// ErrDecryptionFailed is returned when the cipher stage cannot recover
	// the compacted message.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrValidationRejected is returned when either validation phase, or the
	// remote response validation, rejects a message.
	ErrValidationRejected = errors.New("message rejected by validation")

	// ErrTransformAsymmetry is returned when a deobfuscate stage encounters
	// a field shape the paired obfuscate stage could not have produced.
	ErrTransformAsymmetry = errors.New("package transform asymmetry")

	// ErrMissingVector is returned when a required clear-text vector is
	// absent from an incoming package.
	ErrMissingVector = errors.New("required vector is missing")
)

// ProfileError is implemented by all pipeline errors.
type ProfileError interface {
	error
	ProfileError() // marker method
}

// Phase identifies the validation checkpoint that rejected a message.
type Phase string

const (
	// PhasePre is the cheap structural check that runs before the
	// credential unsecure step.
	PhasePre Phase = "pre"
	// PhaseFinal is the post-unsecure check, permitted to consult the
	// replay-protection store.
	PhaseFinal Phase = "final"
	// PhaseResponse is the client-side correlation check on a received
	// response.
	PhaseResponse Phase = "response"
)

// DecryptionError represents a cipher stage failure: malformed ciphertext or
// wrong key material implied by the vectors. The message is dropped, never
// retried, and no partial plaintext is surfaced.
type DecryptionError struct {
	Stage string // "request", "response", "header", "password"
	Err   error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("decryption failed at %s", e.Stage)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// ProfileError implements the ProfileError interface.
func (e *DecryptionError) ProfileError() {}

// ValidationRejectedError is returned when a validation gate rejects a
// message. Rejection is terminal for that message: no subsequent stage output
// is delivered to the caller.
type ValidationRejectedError struct {
	Phase  Phase
	Reason string
}

func (e *ValidationRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("message rejected at %s validation: %s", e.Phase, e.Reason)
	}
	return fmt.Sprintf("message rejected at %s validation", e.Phase)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationRejectedError) Is(target error) bool {
	return target == ErrValidationRejected
}

// ProfileError implements the ProfileError interface.
func (e *ValidationRejectedError) ProfileError() {}

// TransformAsymmetryError indicates a malformed or hostile package: the
// deobfuscate stage saw a field its paired obfuscate stage does not produce.
type TransformAsymmetryError struct {
	Field string
}

func (e *TransformAsymmetryError) Error() string {
	return fmt.Sprintf("package transform asymmetry: unexpected field %q", e.Field)
}

// Is implements errors.Is for sentinel error matching.
func (e *TransformAsymmetryError) Is(target error) bool {
	return target == ErrTransformAsymmetry
}

// ProfileError implements the ProfileError interface.
func (e *TransformAsymmetryError) ProfileError() {}

// MissingVectorError reports which required vector an incoming package lacks.
type MissingVectorError struct {
	Name string
}

func (e *MissingVectorError) Error() string {
	return fmt.Sprintf("required vector %q is missing", e.Name)
}

// Is implements errors.Is for sentinel error matching.
func (e *MissingVectorError) Is(target error) bool {
	return target == ErrMissingVector
}

// ProfileError implements the ProfileError interface.
func (e *MissingVectorError) ProfileError() {}
