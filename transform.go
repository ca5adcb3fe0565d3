package wireseal

import (
	"crypto/rand"
	"fmt"

	"github.com/wireseal/profile-go/internal/crypto"
)

// FieldMap is a bijective package transform: it renames the top-level fields
// of an outgoing package and optionally injects decoy fields, and reverses
// both on the way back in. This is structural obfuscation of the wire layout,
// not a confidentiality mechanism.
type FieldMap struct {
	forward map[string]string // clear name -> wire name
	reverse map[string]string // wire name -> clear name
	decoys  []string          // wire-only fields, dropped on deobfuscate
}

// NewFieldMap builds a FieldMap from clear-to-wire renames and an optional
// list of decoy wire fields. The renames must be injective and the decoys
// must not collide with any wire name, otherwise the transform would not be
// reversible.
func NewFieldMap(renames map[string]string, decoys ...string) (*FieldMap, error) {
	forward := make(map[string]string, len(renames))
	reverse := make(map[string]string, len(renames))

	for clear, wire := range renames {
		if prev, ok := reverse[wire]; ok {
			return nil, fmt.Errorf("field map is not injective: %q and %q both map to %q", prev, clear, wire)
		}
		forward[clear] = wire
		reverse[wire] = clear
	}

	for _, decoy := range decoys {
		if _, ok := reverse[decoy]; ok {
			return nil, fmt.Errorf("decoy field %q collides with a wire name", decoy)
		}
		reverse[decoy] = ""
	}
	// reverse holds decoys as empty-string targets; keep the list for
	// deterministic injection order.
	dcp := append([]string(nil), decoys...)

	return &FieldMap{forward: forward, reverse: reverse, decoys: dcp}, nil
}

// IdentityFieldMap returns a transform that leaves every field untouched and
// declares the given field names as the package shape it understands.
func IdentityFieldMap(names ...string) (*FieldMap, error) {
	renames := make(map[string]string, len(names))
	for _, name := range names {
		renames[name] = name
	}
	return NewFieldMap(renames)
}

// Obfuscate renames each field to its wire name, preserving order, and
// appends the decoy fields with random filler values.
func (m *FieldMap) Obfuscate(pkg *Package) (*Package, error) {
	out := NewPackage()
	for _, name := range pkg.Names() {
		wire, ok := m.forward[name]
		if !ok {
			return nil, &TransformAsymmetryError{Field: name}
		}
		value, _ := pkg.Get(name)
		out.Set(wire, value)
	}

	for _, decoy := range m.decoys {
		filler := make([]byte, 8)
		if _, err := rand.Read(filler); err != nil {
			return nil, fmt.Errorf("generate decoy filler: %w", err)
		}
		out.Set(decoy, crypto.ToBase64URL(filler))
	}

	return out, nil
}

// Deobfuscate restores the clear field names, dropping decoys. Any field the
// paired Obfuscate could not have produced fails with a
// TransformAsymmetryError.
func (m *FieldMap) Deobfuscate(pkg *Package) (*Package, error) {
	out := NewPackage()
	for _, wire := range pkg.Names() {
		clear, ok := m.reverse[wire]
		if !ok {
			return nil, &TransformAsymmetryError{Field: wire}
		}
		if clear == "" {
			// decoy: dropped, never misrouted
			continue
		}
		value, _ := pkg.Get(wire)
		out.Set(clear, value)
	}
	return out, nil
}
