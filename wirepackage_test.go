package wireseal

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPackage_OrderPreserved(t *testing.T) {
	pkg := NewPackage()
	pkg.Set("zeta", "1")
	pkg.Set("alpha", "2")
	pkg.Set("mu", "3")

	want := []string{"zeta", "alpha", "mu"}
	if got := pkg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	// Overwriting keeps the original position
	pkg.Set("alpha", "22")
	if got := pkg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after overwrite = %v, want %v", got, want)
	}
	if v, _ := pkg.Get("alpha"); v != "22" {
		t.Errorf("Get(alpha) = %q, want %q", v, "22")
	}
}

func TestPackage_JSONRoundTripKeepsOrder(t *testing.T) {
	pkg := NewPackage()
	pkg.Set("body", "abc")
	pkg.Set("digest", "def")
	pkg.Set("vectors", `{"message_id":"6"}`)

	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	decoded := NewPackage()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !pkg.Equal(decoded) {
		t.Errorf("round trip changed the package: %v -> %v", pkg.Names(), decoded.Names())
	}
}

func TestPackage_UnmarshalRejectsNonObject(t *testing.T) {
	decoded := NewPackage()
	if err := json.Unmarshal([]byte(`["a","b"]`), decoded); err == nil {
		t.Error("expected error for JSON array")
	}
}

func TestPackage_UnmarshalRejectsNonStringValues(t *testing.T) {
	decoded := NewPackage()
	if err := json.Unmarshal([]byte(`{"body": 42}`), decoded); err == nil {
		t.Error("expected error for numeric field value")
	}
}

func TestPackage_CloneIndependence(t *testing.T) {
	pkg := NewPackage()
	pkg.Set("body", "abc")

	clone := pkg.Clone()
	clone.Set("body", "xyz")
	clone.Set("extra", "1")

	if v, _ := pkg.Get("body"); v != "abc" {
		t.Errorf("mutating the clone changed the original: body = %q", v)
	}
	if _, ok := pkg.Get("extra"); ok {
		t.Error("mutating the clone added a field to the original")
	}
}

func TestPackage_Equal(t *testing.T) {
	a := NewPackage()
	a.Set("x", "1")
	a.Set("y", "2")

	sameOrder := NewPackage()
	sameOrder.Set("x", "1")
	sameOrder.Set("y", "2")

	differentOrder := NewPackage()
	differentOrder.Set("y", "2")
	differentOrder.Set("x", "1")

	if !a.Equal(sameOrder) {
		t.Error("identical packages compare unequal")
	}
	if a.Equal(differentOrder) {
		t.Error("packages with different field order compare equal")
	}
}
