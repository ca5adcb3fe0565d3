package wireseal

import (
	"errors"
	"testing"
)

func testFieldMap(t *testing.T) *FieldMap {
	t.Helper()
	m, err := NewFieldMap(map[string]string{
		FieldBody:    "d",
		FieldDigest:  "c",
		FieldVectors: "v",
	}, "x1", "x2")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestFieldMap_RoundTrip(t *testing.T) {
	m := testFieldMap(t)

	pkg := NewPackage()
	pkg.Set(FieldBody, "ciphertext")
	pkg.Set(FieldDigest, "digest")
	pkg.Set(FieldVectors, `{"timestamp":"100"}`)

	obfuscated, err := m.Obfuscate(pkg)
	if err != nil {
		t.Fatalf("Obfuscate() error = %v", err)
	}

	// Wire names replace clear names, decoys appended
	if _, ok := obfuscated.Get(FieldBody); ok {
		t.Error("clear field name survived obfuscation")
	}
	if _, ok := obfuscated.Get("d"); !ok {
		t.Error("wire field name missing after obfuscation")
	}
	if _, ok := obfuscated.Get("x1"); !ok {
		t.Error("decoy field missing after obfuscation")
	}

	restored, err := m.Deobfuscate(obfuscated)
	if err != nil {
		t.Fatalf("Deobfuscate() error = %v", err)
	}

	if !pkg.Equal(restored) {
		t.Errorf("round trip changed the package: %v -> %v", pkg.Names(), restored.Names())
	}
}

func TestFieldMap_DecoysDroppedNotMisrouted(t *testing.T) {
	m := testFieldMap(t)

	pkg := NewPackage()
	pkg.Set(FieldBody, "ciphertext")

	obfuscated, err := m.Obfuscate(pkg)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := m.Deobfuscate(obfuscated)
	if err != nil {
		t.Fatal(err)
	}

	if restored.Len() != 1 {
		t.Errorf("expected decoys to be dropped, got fields %v", restored.Names())
	}
}

func TestFieldMap_UnknownFieldOnObfuscate(t *testing.T) {
	m := testFieldMap(t)

	pkg := NewPackage()
	pkg.Set("unknown", "value")

	_, err := m.Obfuscate(pkg)
	if !errors.Is(err, ErrTransformAsymmetry) {
		t.Errorf("expected ErrTransformAsymmetry, got %v", err)
	}
}

func TestFieldMap_UnknownFieldOnDeobfuscate(t *testing.T) {
	m := testFieldMap(t)

	pkg := NewPackage()
	pkg.Set("d", "ciphertext")
	pkg.Set("hostile", "value")

	_, err := m.Deobfuscate(pkg)
	if !errors.Is(err, ErrTransformAsymmetry) {
		t.Errorf("expected ErrTransformAsymmetry, got %v", err)
	}

	var asym *TransformAsymmetryError
	if !errors.As(err, &asym) || asym.Field != "hostile" {
		t.Errorf("expected TransformAsymmetryError naming %q, got %v", "hostile", err)
	}
}

func TestNewFieldMap_RejectsNonInjective(t *testing.T) {
	_, err := NewFieldMap(map[string]string{
		"a": "wire",
		"b": "wire",
	})
	if err == nil {
		t.Error("expected error for non-injective renames")
	}
}

func TestNewFieldMap_RejectsDecoyCollision(t *testing.T) {
	_, err := NewFieldMap(map[string]string{"a": "wire"}, "wire")
	if err == nil {
		t.Error("expected error for decoy colliding with a wire name")
	}
}

func TestIdentityFieldMap(t *testing.T) {
	m, err := IdentityFieldMap(FieldBody, FieldDigest)
	if err != nil {
		t.Fatal(err)
	}

	pkg := NewPackage()
	pkg.Set(FieldBody, "x")
	pkg.Set(FieldDigest, "y")

	obfuscated, err := m.Obfuscate(pkg)
	if err != nil {
		t.Fatal(err)
	}
	if !pkg.Equal(obfuscated) {
		t.Error("identity map changed the package")
	}
}
