package board

import (
	"errors"
	"testing"
)

func zOrderOf(t *testing.T, b *Board, id ElementID) int {
	t.Helper()
	p, ok := b.Placemat(id)
	if !ok {
		t.Fatalf("placemat %s not found", id)
	}
	return p.ZOrder
}

func TestNormalizeZOrder(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "a", ZOrder: 10})
	_ = b.AddPlacemat(Placemat{ID: "b", ZOrder: -3})
	_ = b.AddPlacemat(Placemat{ID: "c", ZOrder: 7})

	b.NormalizeZOrder()

	if got := zOrderOf(t, b, "b"); got != 0 {
		t.Errorf("b z-order = %d, want 0", got)
	}
	if got := zOrderOf(t, b, "c"); got != 1 {
		t.Errorf("c z-order = %d, want 1", got)
	}
	if got := zOrderOf(t, b, "a"); got != 2 {
		t.Errorf("a z-order = %d, want 2", got)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() after normalize = %v", err)
	}
}

func TestNormalizeZOrderBreaksTiesByInsertion(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "first", ZOrder: 5})
	_ = b.AddPlacemat(Placemat{ID: "second", ZOrder: 5})

	b.NormalizeZOrder()

	if zOrderOf(t, b, "first") != 0 || zOrderOf(t, b, "second") != 1 {
		t.Errorf("tie should keep insertion order: first=%d second=%d",
			zOrderOf(t, b, "first"), zOrderOf(t, b, "second"))
	}
}

func TestBringToFront(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "a", ZOrder: 0})
	_ = b.AddPlacemat(Placemat{ID: "b", ZOrder: 1})
	_ = b.AddPlacemat(Placemat{ID: "c", ZOrder: 2})

	if err := b.BringToFront("a"); err != nil {
		t.Fatalf("BringToFront() error = %v", err)
	}

	if got := zOrderOf(t, b, "a"); got != 2 {
		t.Errorf("a z-order = %d, want 2 (front)", got)
	}
	if got := zOrderOf(t, b, "b"); got != 0 {
		t.Errorf("b z-order = %d, want 0", got)
	}
}

func TestSendToBack(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "a", ZOrder: 0})
	_ = b.AddPlacemat(Placemat{ID: "b", ZOrder: 1})
	_ = b.AddPlacemat(Placemat{ID: "c", ZOrder: 2})

	if err := b.SendToBack("c"); err != nil {
		t.Fatalf("SendToBack() error = %v", err)
	}

	if got := zOrderOf(t, b, "c"); got != 0 {
		t.Errorf("c z-order = %d, want 0 (back)", got)
	}
	if got := zOrderOf(t, b, "a"); got != 1 {
		t.Errorf("a z-order = %d, want 1", got)
	}
}

func TestSetZOrder(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "a", ZOrder: 0})
	_ = b.AddPlacemat(Placemat{ID: "b", ZOrder: 1})
	_ = b.AddPlacemat(Placemat{ID: "c", ZOrder: 2})

	// Move c between a and b.
	if err := b.SetZOrder("c", 1); err != nil {
		t.Fatalf("SetZOrder() error = %v", err)
	}

	if zOrderOf(t, b, "a") != 0 || zOrderOf(t, b, "c") != 1 || zOrderOf(t, b, "b") != 2 {
		t.Errorf("stack = a:%d c:%d b:%d, want a:0 c:1 b:2",
			zOrderOf(t, b, "a"), zOrderOf(t, b, "c"), zOrderOf(t, b, "b"))
	}
}

func TestZOrderOpsRejectNonPlacemats(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "n"})

	if err := b.BringToFront("n"); !errors.Is(err, ErrNotAPlacemat) {
		t.Errorf("BringToFront(node) error = %v, want %v", err, ErrNotAPlacemat)
	}
	if err := b.SendToBack("ghost"); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("SendToBack(unknown) error = %v, want %v", err, ErrUnknownElement)
	}
}

func TestNextZOrder(t *testing.T) {
	b := New(nil)
	if got := b.NextZOrder(); got != 0 {
		t.Errorf("NextZOrder() on empty board = %d, want 0", got)
	}
	_ = b.AddPlacemat(Placemat{ID: "a", ZOrder: 4})
	if got := b.NextZOrder(); got != 5 {
		t.Errorf("NextZOrder() = %d, want 5", got)
	}
}
