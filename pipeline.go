package wireseal

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"github.com/wireseal/profile-go/internal/crypto"
)

// Clear-form field names of a transmitted package. Obfuscation maps these to
// their wire names; deobfuscation maps them back.
const (
	// FieldBody carries the encrypted compacted message, base64url-encoded.
	FieldBody = "body"
	// FieldDigest carries the integrity digest over the unencrypted
	// compacted message.
	FieldDigest = "digest"
	// FieldVectors carries the clear-text vector mapping as a JSON object.
	FieldVectors = "vectors"
)

// SentRequest pairs the transmitted package with the snapshot of message
// variables taken at transmission time. The snapshot is what the caller later
// hands to InboundResponse to correlate the response.
type SentRequest struct {
	// Package is the obfuscated package ready for the wire.
	Package *Package
	// Vectors is the message-variable snapshot that survives the request.
	Vectors Vectors
}

// Received is the outcome of an inbound request cycle.
type Received struct {
	// Request is the delivered request with credential headers restored.
	Request *Request
	// State is the terminal validation state, StateAccepted on delivery.
	State ValidationState
}

// Pipeline runs the fixed ordering of security stages over a request profile
// and a response profile. Responses mirror requests with a separate, usually
// weaker, profile pairing; passing nil for responses reuses the request
// profile for both directions.
//
// A Pipeline holds no per-message state and is safe for concurrent use on
// independent Request and Response values.
type Pipeline struct {
	requests  Profile
	responses Profile
}

// NewPipeline creates a Pipeline over the given profile pairing.
func NewPipeline(requests, responses Profile) *Pipeline {
	if responses == nil {
		responses = requests
	}
	return &Pipeline{requests: requests, responses: responses}
}

// compacted is the serialized payload body prior to encryption. It carries
// the message variables as they stood at compaction time: this encrypted copy
// is what phase-1 validation compares against the clear wire vectors, so a
// tampered clear channel no longer matches the authenticated one. Variables
// the cipher stage attaches after compaction (salts, KEM ciphertexts) travel
// only in clear.
type compacted struct {
	Headers   map[string]string `json:"headers,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Body      []byte            `json:"body"`
}

func compactRequest(req *Request) ([]byte, error) {
	headers := make(map[string]string, len(req.HeaderNames()))
	for _, name := range req.HeaderNames() {
		v, _ := req.Header(name)
		headers[name] = v
	}

	vars := req.Variables()
	variables := make(map[string]string, vars.Len())
	for _, name := range vars.Names() {
		v, _ := vars.Get(name)
		variables[name] = v
	}

	return json.Marshal(compacted{Headers: headers, Variables: variables, Body: req.Body})
}

func uncompactRequest(data []byte) (*Request, error) {
	var c compacted
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("uncompact request: %w", err)
	}

	req := NewRequest(c.Body)
	for name, value := range c.Headers {
		req.SetHeader(name, value)
	}
	for name, value := range c.Variables {
		req.SetVariable(name, value)
	}
	return req, nil
}

func compactResponse(resp *Response) ([]byte, error) {
	vecs := resp.Vectors()
	variables := make(map[string]string, vecs.Len())
	for _, name := range vecs.Names() {
		v, _ := vecs.Get(name)
		variables[name] = v
	}
	return json.Marshal(compacted{Variables: variables, Body: resp.Body})
}

func uncompactResponse(data []byte) (*Response, error) {
	var c compacted
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("uncompact response: %w", err)
	}

	resp := NewResponse(c.Body)
	for name, value := range c.Variables {
		resp.SetVector(name, value)
	}
	return resp, nil
}

func encodeVectors(v Vectors) (string, error) {
	m := make(map[string]string, v.Len())
	for _, name := range v.Names() {
		s, _ := v.Get(name)
		m[name] = s
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeVectors(s string) (Vectors, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return Vectors{}, fmt.Errorf("decode vectors: %w", err)
	}
	return NewVectors(m), nil
}

// OutboundRequest runs the outbound stage ordering: secure → compact →
// encrypt → digest → obfuscate. The caller's request is cloned first, so a
// failure anywhere leaves it untouched; there is no partial-pipeline rollback
// beyond discarding the result.
func (p *Pipeline) OutboundRequest(req *Request) (*SentRequest, error) {
	secured, err := p.requests.SecureRequest(req.Clone())
	if err != nil {
		return nil, fmt.Errorf("secure request: %w", err)
	}

	body, err := compactRequest(secured)
	if err != nil {
		return nil, fmt.Errorf("compact request: %w", err)
	}

	ciphertext, secured, err := p.requests.EncryptRequest(body, secured)
	if err != nil {
		return nil, fmt.Errorf("encrypt request: %w", err)
	}

	digest := p.requests.GenerateHMAC(body)

	vectors := secured.Variables()
	encodedVectors, err := encodeVectors(vectors)
	if err != nil {
		return nil, fmt.Errorf("encode vectors: %w", err)
	}

	pkg := NewPackage()
	pkg.Set(FieldBody, crypto.ToBase64URL(ciphertext))
	pkg.Set(FieldDigest, digest)
	pkg.Set(FieldVectors, encodedVectors)

	obfuscated, err := p.requests.ObfuscateRequestPackage(pkg)
	if err != nil {
		return nil, fmt.Errorf("obfuscate request package: %w", err)
	}

	return &SentRequest{Package: obfuscated, Vectors: vectors}, nil
}

// InboundRequest runs the inbound stage ordering: deobfuscate → decrypt →
// validate(pre) → unsecure → validate(post) → deliver. Credential headers
// are only restored for requests that already passed the cheap phase-1 check,
// and a rejection at either checkpoint short-circuits every remaining stage.
//
// FinalInvalidation may block on the replay-protection store, so the context
// bounds the whole inbound cycle.
func (p *Pipeline) InboundRequest(ctx context.Context, pkg *Package) (*Received, error) {
	gate := &validationGate{}

	plain, err := p.requests.DeobfuscateRequestPackage(pkg)
	if err != nil {
		return nil, fmt.Errorf("deobfuscate request package: %w", err)
	}

	ciphertext, vectors, err := splitPackage(plain)
	if err != nil {
		return nil, err
	}

	body, err := p.requests.DecryptRequest(ciphertext, vectors)
	if err != nil {
		return nil, fmt.Errorf("decrypt request: %w", err)
	}

	req, err := uncompactRequest(body)
	if err != nil {
		return nil, err
	}

	// Phase 1: cheap structural check on still-secured headers. Gates the
	// expensive credential unsecure step below.
	if p.requests.InvalidateRequest(req, vectors) {
		return nil, gate.reject(PhasePre, "pre-unsecure check failed")
	}
	gate.advance(StatePreValidated)

	unsecured, err := p.requests.UnsecureRequest(req)
	if err != nil {
		return nil, fmt.Errorf("unsecure request: %w", err)
	}

	// Phase 2: may consult the replay-protection store.
	rejected, err := p.requests.FinalInvalidation(ctx, unsecured)
	if err != nil {
		return nil, fmt.Errorf("final invalidation: %w", err)
	}
	if rejected {
		return nil, gate.reject(PhaseFinal, "post-unsecure check failed")
	}
	gate.advance(StateAccepted)

	return &Received{Request: unsecured, State: gate.state}, nil
}

// OutboundResponse runs the server-side response ordering: prepare →
// compact → encrypt → digest → obfuscate. The originating request may be nil
// for unsolicited responses.
func (p *Pipeline) OutboundResponse(resp *Response, req *Request) (*Package, error) {
	prepared, err := p.responses.PrepareResponse(resp.Clone(), req)
	if err != nil {
		return nil, fmt.Errorf("prepare response: %w", err)
	}

	body, err := compactResponse(prepared)
	if err != nil {
		return nil, fmt.Errorf("compact response: %w", err)
	}

	ciphertext, prepared, err := p.responses.EncryptResponse(body, prepared)
	if err != nil {
		return nil, fmt.Errorf("encrypt response: %w", err)
	}

	digest := p.responses.GenerateHMAC(body)

	encodedVectors, err := encodeVectors(prepared.Vectors())
	if err != nil {
		return nil, fmt.Errorf("encode vectors: %w", err)
	}

	pkg := NewPackage()
	pkg.Set(FieldBody, crypto.ToBase64URL(ciphertext))
	pkg.Set(FieldDigest, digest)
	pkg.Set(FieldVectors, encodedVectors)

	return p.responses.ObfuscateResponsePackage(pkg)
}

// InboundResponse runs the client-side response ordering: deobfuscate →
// decrypt → validateResponse → deliver. The sent vectors are the snapshot
// returned by OutboundRequest for the request this response answers.
func (p *Pipeline) InboundResponse(pkg *Package, sent Vectors) (*Response, error) {
	plain, err := p.responses.DeobfuscateResponsePackage(pkg)
	if err != nil {
		return nil, fmt.Errorf("deobfuscate response package: %w", err)
	}

	ciphertext, vectors, err := splitPackage(plain)
	if err != nil {
		return nil, err
	}

	body, err := p.responses.DecryptResponse(ciphertext, vectors)
	if err != nil {
		return nil, fmt.Errorf("decrypt response: %w", err)
	}

	resp, err := uncompactResponse(body)
	if err != nil {
		return nil, err
	}

	if !p.responses.ValidateResponse(resp, sent) {
		gate := &validationGate{}
		return nil, gate.reject(PhaseResponse, "correlation vector mismatch")
	}

	return resp, nil
}

// splitPackage extracts the ciphertext and clear vectors from a deobfuscated
// package.
func splitPackage(pkg *Package) ([]byte, Vectors, error) {
	encodedBody, ok := pkg.Get(FieldBody)
	if !ok {
		return nil, Vectors{}, &TransformAsymmetryError{Field: FieldBody}
	}

	ciphertext, err := crypto.FromBase64URL(encodedBody)
	if err != nil {
		return nil, Vectors{}, fmt.Errorf("decode package body: %w", err)
	}

	encodedVectors, ok := pkg.Get(FieldVectors)
	if !ok {
		return nil, Vectors{}, &TransformAsymmetryError{Field: FieldVectors}
	}

	vectors, err := decodeVectors(encodedVectors)
	if err != nil {
		return nil, Vectors{}, err
	}

	return ciphertext, vectors, nil
}

// VerifyDigest checks a package's integrity digest against the compacted
// message recovered from it. It is a helper for transport collaborators; the
// pipeline's own control flow does not call it.
func VerifyDigest(p Profile, compacted []byte, digest string) bool {
	want := p.GenerateHMAC(compacted)
	return subtle.ConstantTimeCompare([]byte(want), []byte(digest)) == 1
}
