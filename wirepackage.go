package wireseal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Package is the ordered mapping of named fields representing exactly what
// crosses the wire. Field order is preserved through encoding, obfuscation
// and decoding: every field consumed by a deobfuscate stage must have been
// produced by the paired obfuscate stage, and vice versa.
type Package struct {
	names  []string
	fields map[string]string
}

// NewPackage creates an empty Package.
func NewPackage() *Package {
	return &Package{fields: make(map[string]string)}
}

// Set stores a field value. A new name is appended at the end; setting an
// existing name keeps its position.
func (p *Package) Set(name, value string) {
	if _, ok := p.fields[name]; !ok {
		p.names = append(p.names, name)
	}
	p.fields[name] = value
}

// Get returns the named field value.
func (p *Package) Get(name string) (string, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// Names returns the field names in wire order.
func (p *Package) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of fields.
func (p *Package) Len() int {
	return len(p.names)
}

// Clone returns a copy preserving field order.
func (p *Package) Clone() *Package {
	c := NewPackage()
	for _, name := range p.names {
		c.Set(name, p.fields[name])
	}
	return c
}

// Equal reports whether two packages carry the same fields in the same order.
func (p *Package) Equal(other *Package) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i, name := range p.names {
		if other.names[i] != name {
			return false
		}
		if other.fields[name] != p.fields[name] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the package as a JSON object with fields in wire order.
func (p *Package) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.fields[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the order of its keys.
func (p *Package) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("package: expected JSON object, got %v", tok)
	}

	p.names = nil
	p.fields = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("package: expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		val, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("package: field %q is not a string", key)
		}

		p.Set(key, val)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
