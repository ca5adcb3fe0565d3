package wireseal

import "context"

// Profile is the pluggable unit an implementer substitutes per deployment.
// One Profile instance processes every message, so implementations must be
// stateless with respect to any single message: message-specific state lives
// in the Request, Response and Vectors, never in the Profile itself. Key
// material and algorithm choice are immutable configuration injected at
// construction.
//
// Stages accept their inputs and return new values or explicit results;
// none of them mutates its argument.
type Profile interface {
	// SecureRequest transforms clear-text credential headers into their
	// transport-safe form and attaches an anti-replay token as a message
	// variable. It runs exactly once per outbound request, before
	// compaction, and must leave the request usable by every downstream
	// stage.
	SecureRequest(req *Request) (*Request, error)

	// UnsecureRequest reverses SecureRequest, restoring credential headers
	// to usable clear text. The pipeline only calls it for requests that
	// passed the pre-unsecure validation phase.
	UnsecureRequest(req *Request) (*Request, error)

	// EncryptRequest encrypts the compacted message body. Key material may
	// be derived from the request's message variables; any salt or key
	// ciphertext the decrypt side needs must be attached as a message
	// variable on the returned request.
	EncryptRequest(compacted []byte, req *Request) ([]byte, *Request, error)

	// DecryptRequest reverses EncryptRequest given the clear-text vectors
	// that accompanied the package. It must reproduce the original
	// compacted body byte for byte, or fail with a DecryptionError; it
	// must never return garbage that downstream stages treat as valid.
	DecryptRequest(ciphertext []byte, vectors Vectors) ([]byte, error)

	// EncryptResponse and DecryptResponse are the response-direction
	// counterparts, keyed off the response vector namespace.
	EncryptResponse(compacted []byte, resp *Response) ([]byte, *Response, error)
	DecryptResponse(ciphertext []byte, vectors Vectors) ([]byte, error)

	// GenerateHMAC computes a deterministic integrity digest over the
	// unencrypted compacted message. The transport collaborator uses it to
	// detect tampering; the pipeline's own control flow never consults it.
	GenerateHMAC(compacted []byte) string

	// InvalidateRequest is validation phase 1. It runs before any header is
	// restored to clear text, comparing cheap pre-unsecure signals (e.g.
	// the timestamp) between the received request and the clear vectors.
	// Returning true rejects the message.
	InvalidateRequest(req *Request, vectors Vectors) bool

	// FinalInvalidation is validation phase 2, running after the unsecure
	// step. It may perform expensive lookups, including a blocking consult
	// of the replay-protection store. Returning true rejects the message.
	FinalInvalidation(ctx context.Context, req *Request) (bool, error)

	// ObfuscateRequestPackage renames, reorders or pads the package's
	// top-level fields without touching payload semantics. It must be a
	// bijection restricted to the fields the paired deobfuscate stage
	// declares: decoy fields introduced here must be dropped, not
	// misrouted, on the way back in.
	ObfuscateRequestPackage(pkg *Package) (*Package, error)

	// DeobfuscateRequestPackage reverses ObfuscateRequestPackage. A field
	// shape the paired obfuscate stage could not have produced fails with
	// a TransformAsymmetryError.
	DeobfuscateRequestPackage(pkg *Package) (*Package, error)

	// ObfuscateResponsePackage and DeobfuscateResponsePackage are the
	// response-direction counterparts.
	ObfuscateResponsePackage(pkg *Package) (*Package, error)
	DeobfuscateResponsePackage(pkg *Package) (*Package, error)

	// PrepareResponse copies the correlation token from the originating
	// request's message variables into the response's vector mapping. The
	// request may be nil for unsolicited responses.
	PrepareResponse(resp *Response, req *Request) (*Response, error)

	// ValidateResponse runs client-side on a received response. It accepts
	// the response if and only if its correlation vector matches what the
	// matching request sent. Rejection is terminal; there is no retry at
	// this layer.
	ValidateResponse(resp *Response, sent Vectors) bool

	// EncryptServerPassword and DecryptServerPassword are a round-trip
	// inverse pair for at-rest credential storage, parameterized by an
	// auxiliary vector set (e.g. a stored salt) distinct from message
	// vectors. They never reuse per-message key material.
	EncryptServerPassword(password string, vectors Vectors) (string, error)
	DecryptServerPassword(stored string, vectors Vectors) (string, error)
}

// ReplayStore is the replay-protection collaborator consulted from
// FinalInvalidation. Persistence is the store's concern, not the pipeline's.
type ReplayStore interface {
	// Seen reports whether the message identifier has been observed before.
	Seen(ctx context.Context, messageID string) (bool, error)

	// Remember records the message identifier.
	Remember(ctx context.Context, messageID string) error
}

// ValidationState tracks an inbound request through the two-phase rejection
// gate: Unchecked → PreValidated → Accepted, with terminal Rejected reachable
// from either checkpoint.
type ValidationState uint8

const (
	// StateUnchecked means no validation phase has run yet.
	StateUnchecked ValidationState = iota
	// StatePreValidated means phase 1 passed; the unsecure step may run.
	StatePreValidated
	// StateAccepted means both phases passed and the message may be
	// delivered.
	StateAccepted
	// StateRejected is terminal: no subsequent stage output is delivered.
	StateRejected
)

// String returns the state name.
func (s ValidationState) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StatePreValidated:
		return "pre-validated"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// validationGate enforces the legal transitions of the two-phase gate. Once
// rejected it refuses further advancement, which is what makes rejection
// short-circuit the remaining stages.
type validationGate struct {
	state ValidationState
}

func (g *validationGate) advance(next ValidationState) bool {
	if g.state == StateRejected {
		return false
	}
	switch {
	case g.state == StateUnchecked && next == StatePreValidated,
		g.state == StatePreValidated && next == StateAccepted:
		g.state = next
		return true
	}
	return false
}

func (g *validationGate) reject(phase Phase, reason string) error {
	g.state = StateRejected
	return &ValidationRejectedError{Phase: phase, Reason: reason}
}
