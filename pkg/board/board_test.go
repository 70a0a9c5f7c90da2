package board

import (
	"errors"
	"testing"

	"github.com/okislab/placemat/pkg/geom"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		setup   func(*Board)
		wantErr error
	}{
		{
			name: "valid node",
			node: Node{ID: "a", Bounds: geom.Rect{W: 10, H: 10}},
		},
		{
			name:    "empty ID",
			node:    Node{Bounds: geom.Rect{W: 10, H: 10}},
			wantErr: ErrInvalidElementID,
		},
		{
			name: "duplicate node ID",
			node: Node{ID: "a"},
			setup: func(b *Board) {
				_ = b.AddNode(Node{ID: "a"})
			},
			wantErr: ErrDuplicateElementID,
		},
		{
			name: "ID collides with placemat",
			node: Node{ID: "mat"},
			setup: func(b *Board) {
				_ = b.AddPlacemat(Placemat{ID: "mat"})
			},
			wantErr: ErrDuplicateElementID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(nil)
			if tt.setup != nil {
				tt.setup(b)
			}
			err := b.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeInitializesMeta(t *testing.T) {
	b := New(nil)
	if err := b.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	n, ok := b.Node("a")
	if !ok {
		t.Fatal("Node() did not find added node")
	}
	if n.Meta == nil {
		t.Error("Meta should be initialized to an empty map")
	}
}

func TestAddEdge(t *testing.T) {
	newBoard := func() *Board {
		b := New(nil)
		_ = b.AddNode(Node{ID: "a"})
		_ = b.AddNode(Node{ID: "b"})
		return b
	}

	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{name: "valid edge", edge: Edge{From: "a", To: "b"}},
		{name: "unknown source", edge: Edge{From: "x", To: "b"}, wantErr: ErrUnknownEndpoint},
		{name: "unknown target", edge: Edge{From: "a", To: "x"}, wantErr: ErrUnknownEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard()
			err := b.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdgeDerivesID(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "a"})
	_ = b.AddNode(Node{ID: "b"})
	if err := b.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if _, ok := b.Edge("a->b"); !ok {
		t.Error("edge ID should be derived from endpoints")
	}
	// Same endpoints again collide on the derived ID.
	if err := b.AddEdge(Edge{From: "a", To: "b"}); !errors.Is(err, ErrDuplicateElementID) {
		t.Errorf("duplicate derived ID error = %v, want %v", err, ErrDuplicateElementID)
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "a"})
	_ = b.AddNode(Node{ID: "b"})
	_ = b.AddEdge(Edge{From: "a", To: "b"})

	b.RemoveNode("a")

	if _, ok := b.Node("a"); ok {
		t.Error("node should be removed")
	}
	if b.EdgeCount() != 0 {
		t.Errorf("incident edges should be removed, got %d", b.EdgeCount())
	}
}

func TestRemoveNodeDropsSnapshotReferences(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "a", Bounds: geom.Rect{X: 20, Y: 20, W: 40, H: 30}, Movable: true})
	_ = b.AddPlacemat(Placemat{ID: "mat", Bounds: geom.Rect{W: 200, H: 200}})
	if err := b.Collapse("mat"); err != nil {
		t.Fatalf("Collapse() error = %v", err)
	}

	b.RemoveNode("a")

	p, _ := b.Placemat("mat")
	if len(p.Snapshot) != 0 {
		t.Errorf("snapshot should drop removed node, got %v", p.Snapshot)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() after removal = %v", err)
	}
}

func TestRemovePlacematExpandsFirst(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "a", Bounds: geom.Rect{X: 20, Y: 20, W: 40, H: 30}, Movable: true})
	_ = b.AddPlacemat(Placemat{ID: "mat", Bounds: geom.Rect{W: 200, H: 200}})
	_ = b.Collapse("mat")

	b.RemovePlacemat("mat")

	n, _ := b.Node("a")
	if n.Hidden {
		t.Error("removing a collapsed placemat must restore its hidden members")
	}
}

func TestPlacematsSortedByZOrder(t *testing.T) {
	b := New(nil)
	_ = b.AddPlacemat(Placemat{ID: "front", ZOrder: 2})
	_ = b.AddPlacemat(Placemat{ID: "back", ZOrder: 0})
	_ = b.AddPlacemat(Placemat{ID: "mid", ZOrder: 1})

	got := b.Placemats()
	want := []ElementID{"back", "mid", "front"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("Placemats()[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Board)
		wantErr error
	}{
		{
			name: "valid board",
			setup: func(b *Board) {
				_ = b.AddNode(Node{ID: "a"})
				_ = b.AddNode(Node{ID: "b"})
				_ = b.AddEdge(Edge{From: "a", To: "b"})
				_ = b.AddPlacemat(Placemat{ID: "m1", ZOrder: 0})
				_ = b.AddPlacemat(Placemat{ID: "m2", ZOrder: 1})
			},
		},
		{
			name: "z-order collision",
			setup: func(b *Board) {
				_ = b.AddPlacemat(Placemat{ID: "m1", ZOrder: 3})
				_ = b.AddPlacemat(Placemat{ID: "m2", ZOrder: 3})
			},
			wantErr: ErrZOrderCollision,
		},
		{
			name: "dangling snapshot",
			setup: func(b *Board) {
				_ = b.AddPlacemat(Placemat{ID: "m1", Collapsed: true, Snapshot: []ElementID{"ghost"}})
			},
			wantErr: ErrDanglingSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(nil)
			tt.setup(b)
			err := b.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMoveElement(t *testing.T) {
	b := New(nil)
	_ = b.AddNode(Node{ID: "a", Bounds: geom.Rect{X: 10, Y: 10, W: 40, H: 30}})
	_ = b.AddPlacemat(Placemat{ID: "m", Bounds: geom.Rect{X: 0, Y: 0, W: 100, H: 100}})

	if err := b.MoveElement("a", 5, -5); err != nil {
		t.Fatalf("MoveElement() error = %v", err)
	}
	n, _ := b.Node("a")
	if n.Bounds.X != 15 || n.Bounds.Y != 5 {
		t.Errorf("node bounds = %+v, want X=15 Y=5", n.Bounds)
	}

	if err := b.MoveElement("m", 1, 1); err != nil {
		t.Fatalf("MoveElement(placemat) error = %v", err)
	}
	if err := b.MoveElement("ghost", 1, 1); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("MoveElement(unknown) error = %v, want %v", err, ErrUnknownElement)
	}
}
