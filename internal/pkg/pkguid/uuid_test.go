package pkguid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()
	a, b := gen.Generate(), gen.Generate()
	id, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q", a)
	}
	if id.Version() != 7 {
		t.Fatalf("expected version 7, got %d", id.Version())
	}
	if a == b {
		t.Fatal("expected unique ids")
	}
	if !Valid(b) || Valid("not-a-uuid") {
		t.Fatal("unexpected Valid result")
	}
}
