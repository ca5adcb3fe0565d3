package wireseal

import "sort"

// Request is the outbound message under construction, owned by the caller for
// the duration of one send cycle. Headers are clear-text values (e.g. a
// password field) that SecureRequest transforms before transmission; message
// variables are the clear-text side channel (message id, timestamp, salts)
// that crosses the wire unencrypted and pairs the request with its eventual
// response.
type Request struct {
	headers   map[string]string
	variables map[string]string

	// Body is the payload prior to compaction.
	Body []byte
}

// NewRequest creates a Request carrying the given payload body.
func NewRequest(body []byte) *Request {
	return &Request{
		headers:   make(map[string]string),
		variables: make(map[string]string),
		Body:      body,
	}
}

// Header returns the named clear-text header.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// SetHeader sets a clear-text header.
func (r *Request) SetHeader(name, value string) {
	r.headers[name] = value
}

// Variable returns the named message variable.
func (r *Request) Variable(name string) (string, bool) {
	v, ok := r.variables[name]
	return v, ok
}

// SetVariable sets a message variable.
func (r *Request) SetVariable(name, value string) {
	r.variables[name] = value
}

// Variables returns an immutable snapshot of the message variables. The
// snapshot survives the request itself, so it can be paired with the
// eventual response.
func (r *Request) Variables() Vectors {
	return NewVectors(r.variables)
}

// HeaderNames returns the header names in sorted order.
func (r *Request) HeaderNames() []string {
	names := make([]string, 0, len(r.headers))
	for name := range r.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy. Pipeline stages operate on clones so that a
// rejected or failed message never leaves partial mutations behind in the
// caller's Request.
func (r *Request) Clone() *Request {
	c := NewRequest(append([]byte(nil), r.Body...))
	for k, v := range r.headers {
		c.headers[k] = v
	}
	for k, v := range r.variables {
		c.variables[k] = v
	}
	return c
}

// Response is the inbound-to-caller counterpart of Request. Its vector
// mapping is a separate namespace from the request's message variables;
// conflating the two introduces cross-talk between unrelated messages.
type Response struct {
	vectors map[string]string

	// Body is the payload prior to compaction.
	Body []byte
}

// NewResponse creates a Response carrying the given payload body.
func NewResponse(body []byte) *Response {
	return &Response{
		vectors: make(map[string]string),
		Body:    body,
	}
}

// Vector returns the named response vector.
func (r *Response) Vector(name string) (string, bool) {
	v, ok := r.vectors[name]
	return v, ok
}

// SetVector sets a response vector.
func (r *Response) SetVector(name, value string) {
	r.vectors[name] = value
}

// Vectors returns an immutable snapshot of the response vectors.
func (r *Response) Vectors() Vectors {
	return NewVectors(r.vectors)
}

// Clone returns a deep copy.
func (r *Response) Clone() *Response {
	c := NewResponse(append([]byte(nil), r.Body...))
	for k, v := range r.vectors {
		c.vectors[k] = v
	}
	return c
}

// Vectors is an immutable mapping of clear-text values extracted from an
// incoming package. It is presented read-only to the decrypt, validate and
// deobfuscate stages and is never the same object as the live Request or
// Response being built.
type Vectors struct {
	m map[string]string
}

// NewVectors copies m into an immutable Vectors value.
func NewVectors(m map[string]string) Vectors {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Vectors{m: cp}
}

// Get returns the named vector value.
func (v Vectors) Get(name string) (string, bool) {
	s, ok := v.m[name]
	return s, ok
}

// Len returns the number of vectors.
func (v Vectors) Len() int {
	return len(v.m)
}

// Names returns the vector names in sorted order.
func (v Vectors) Names() []string {
	names := make([]string, 0, len(v.m))
	for name := range v.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
