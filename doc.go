// Package wireseal implements a pluggable security profile for a two-way
// request/response messaging protocol: the ordered pipeline of stages that
// secures, encrypts and obfuscates outgoing requests, and deobfuscates,
// decrypts and validates incoming ones.
//
// The pipeline ordering is fixed. Outbound: secure → compact → encrypt →
// digest → obfuscate. Inbound: deobfuscate → decrypt → validate(pre) →
// unsecure → validate(post) → deliver. The two-phase validation gate is the
// core design decision: cheap structural checks run before the credential
// unsecure step and gate the expensive, possibly stateful checks, bounding
// the cost of malicious traffic.
//
// Basic usage:
//
//	profile, err := wireseal.NewGCMProfile(key,
//	    wireseal.WithReplayStore(replay.NewMemory(10*time.Minute)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pipeline := wireseal.NewPipeline(profile, nil)
//
//	req := wireseal.NewRequest([]byte(`{"op":"get"}`))
//	req.SetHeader("password", "hunter2")
//
//	sent, err := pipeline.OutboundRequest(req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// sent.Package goes over the wire; sent.Vectors pairs the request
//	// with its eventual response.
//
//	received, err := pipeline.InboundRequest(ctx, sent.Package)
//	if errors.Is(err, wireseal.ErrValidationRejected) {
//	    // dropped, never delivered
//	}
//
// A Profile is stateless per message and safe to share across all concurrent
// flows; message-specific state lives in the Request, Response and Vectors
// values.
package wireseal
