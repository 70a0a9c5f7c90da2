package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okislab/placemat/pkg/geom"
)

var (
	// ErrInvalidElementID is returned by [Board.AddNode], [Board.AddPlacemat]
	// and [Board.AddEdge] when the element ID is empty. All elements must have
	// non-empty identifiers.
	ErrInvalidElementID = errors.New("element ID must not be empty")

	// ErrDuplicateElementID is returned by [Board.AddNode] and
	// [Board.AddPlacemat] when an element with the same ID already exists.
	// Node and placemat IDs share a single namespace on a board.
	ErrDuplicateElementID = errors.New("duplicate element ID")

	// ErrUnknownElement is returned when an operation references a node or
	// placemat that does not exist on the board.
	ErrUnknownElement = errors.New("unknown element")

	// ErrUnknownEndpoint is returned by [Board.AddEdge] when an edge endpoint
	// does not reference an existing node.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")

	// ErrNotAPlacemat is returned when a placemat operation (collapse, expand,
	// z-order changes) targets an element that is not a placemat.
	ErrNotAPlacemat = errors.New("element is not a placemat")

	// ErrInvalidEdgeEndpoint is returned by [Board.Validate] when an edge
	// references a node that doesn't exist. This indicates board corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrZOrderCollision is returned by [Board.Validate] when two placemats
	// share the same z-order value. Z-order must be a total order; use
	// [Board.NormalizeZOrder] to repair a board after bulk edits.
	ErrZOrderCollision = errors.New("placemats share a z-order value")

	// ErrDanglingSnapshot is returned by [Board.Validate] when a collapsed
	// placemat's snapshot references an element that no longer exists.
	ErrDanglingSnapshot = errors.New("snapshot references missing element")
)

// ElementID identifies a node, placemat, or edge on a board.
// IDs are unique across all element kinds of a single board.
type ElementID string

// Metadata stores arbitrary key-value pairs attached to board elements.
// It is commonly used to carry display hints (color, icon) or application
// data. Metadata maps are never nil after an element has been added.
type Metadata map[string]any

// Element is any positioned board member that the containment resolver can
// claim for a region: nodes and placemats both implement it.
type Element interface {
	// ElementID returns the element's board-unique identifier.
	ElementID() ElementID
	// ElementBounds returns the element's rectangle in board coordinates.
	ElementBounds() geom.Rect
	// IsMovable reports whether the element follows its enclosing region
	// when the region moves or collapses. Pinned elements are never
	// captured in a collapse snapshot.
	IsMovable() bool
}

// Node is a positioned graph node on a board.
//
// The zero value is not usable - ID and Bounds must be set before adding to
// a Board.
type Node struct {
	ID      ElementID // Unique identifier (also used as display label fallback)
	Label   string    // Display label (defaults to ID when empty)
	Bounds  geom.Rect // Position and size in board coordinates
	Movable bool      // Pinned nodes (false) are never captured by a collapse
	Hidden  bool      // Managed by collapse/expand; default visibility is false
	Meta    Metadata  // Arbitrary key-value metadata (never nil after AddNode)
}

// ElementID implements [Element].
func (n *Node) ElementID() ElementID { return n.ID }

// ElementBounds implements [Element].
func (n *Node) ElementBounds() geom.Rect { return n.Bounds }

// IsMovable implements [Element].
func (n *Node) IsMovable() bool { return n.Movable }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.ID)
}

// Placemat is a resizable group region. Placemats stack behind nodes in a
// strict z-order; a placemat drawn in front of (above) another is nested
// inside it for containment purposes.
//
// Collapsed and Snapshot are managed by [Board.Collapse] and [Board.Expand].
// Mutating them directly bypasses the state machine and is unsupported,
// except when reconstructing a board from a serialized document.
type Placemat struct {
	ID        ElementID   // Unique identifier
	Title     string      // Display title shown in the placemat header
	Bounds    geom.Rect   // Position and size in board coordinates
	ZOrder    int         // Stacking position; higher is in front
	Collapsed bool        // True while the placemat hides its snapshot
	Snapshot  []ElementID // Members and edges captured at collapse time
	Hidden    bool        // Set when an enclosing placemat collapses
	Meta      Metadata    // Arbitrary key-value metadata (never nil after AddPlacemat)
}

// ElementID implements [Element].
func (p *Placemat) ElementID() ElementID { return p.ID }

// ElementBounds implements [Element].
func (p *Placemat) ElementBounds() geom.Rect { return p.Bounds }

// IsMovable implements [Element]. Placemats always move with their
// enclosing region.
func (p *Placemat) IsMovable() bool { return true }

// DisplayTitle returns the title if set, otherwise the ID.
func (p *Placemat) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return string(p.ID)
}

// Edge is a directed wire between two node endpoints. An edge has no
// position of its own: it belongs to a region exactly when both endpoint
// nodes do.
type Edge struct {
	ID     ElementID // Unique identifier (derived from endpoints when empty)
	From   ElementID // Source node ID
	To     ElementID // Target node ID
	Hidden bool      // Managed by collapse/expand
	Meta   Metadata  // Arbitrary key-value metadata (never nil after AddEdge)
}

// Board is an arena of nodes, placemats, and wire edges. Elements are
// indexed by ID; region nesting is derived from geometry and z-order by
// [Resolver] rather than stored as mutable parent pointers, so moving an
// element never leaves stale links behind.
//
// The zero value is not usable - use New to create a valid Board instance.
// Board is not safe for concurrent use: it is designed for a single-threaded
// editor update loop.
type Board struct {
	nodes map[ElementID]*Node
	mats  map[ElementID]*Placemat
	edges []*Edge
	byID  map[ElementID]*Edge

	matSeq int // insertion counter, tie-break for z-order normalization
	seqOf  map[ElementID]int
	meta   Metadata
}

// New creates an empty board with optional board-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Board {
	if meta == nil {
		meta = Metadata{}
	}
	return &Board{
		nodes: make(map[ElementID]*Node),
		mats:  make(map[ElementID]*Placemat),
		byID:  make(map[ElementID]*Edge),
		seqOf: make(map[ElementID]int),
		meta:  meta,
	}
}

// Meta returns the board-level metadata map.
// The returned map is never nil and can be safely modified.
func (b *Board) Meta() Metadata { return b.meta }

// AddNode adds a node to the board.
// Returns ErrInvalidElementID if the ID is empty, or ErrDuplicateElementID
// if any element with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (b *Board) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidElementID
	}
	if b.has(n.ID) {
		return ErrDuplicateElementID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	b.nodes[node.ID] = node
	return nil
}

// AddPlacemat adds a placemat to the board.
// Returns ErrInvalidElementID if the ID is empty, or ErrDuplicateElementID
// if any element with the same ID already exists. The Meta field is
// automatically initialized to an empty map if nil.
//
// The given ZOrder is kept as-is; use [Board.NormalizeZOrder] afterwards if
// bulk additions may have introduced collisions, or [Board.NextZOrder] to
// place a new placemat in front of everything.
func (b *Board) AddPlacemat(p Placemat) error {
	if p.ID == "" {
		return ErrInvalidElementID
	}
	if b.has(p.ID) {
		return ErrDuplicateElementID
	}
	if p.Meta == nil {
		p.Meta = Metadata{}
	}
	mat := &p
	b.mats[mat.ID] = mat
	b.seqOf[mat.ID] = b.matSeq
	b.matSeq++
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownEndpoint if either endpoint node doesn't exist, or
// ErrDuplicateElementID if the edge ID is already in use. When the edge ID
// is empty it is derived from the endpoints as "from->to". The Meta field
// is automatically initialized to an empty map if nil.
func (b *Board) AddEdge(e Edge) error {
	if _, ok := b.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.From)
	}
	if _, ok := b.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.To)
	}
	if e.ID == "" {
		e.ID = ElementID(fmt.Sprintf("%s->%s", e.From, e.To))
	}
	if b.has(e.ID) {
		return ErrDuplicateElementID
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	edge := &e
	b.edges = append(b.edges, edge)
	b.byID[edge.ID] = edge
	return nil
}

// RemoveNode removes a node, its incident edges, and any snapshot entries
// referencing it. Removing an unknown node is a no-op.
func (b *Board) RemoveNode(id ElementID) {
	if _, ok := b.nodes[id]; !ok {
		return
	}
	delete(b.nodes, id)
	var removed []ElementID
	b.edges = slices.DeleteFunc(b.edges, func(e *Edge) bool {
		if e.From == id || e.To == id {
			removed = append(removed, e.ID)
			delete(b.byID, e.ID)
			return true
		}
		return false
	})
	removed = append(removed, id)
	b.dropFromSnapshots(removed...)
}

// RemovePlacemat removes a placemat. If it is collapsed, its hidden members
// are restored first so nothing stays invisible behind a deleted region.
// Removing an unknown placemat is a no-op.
func (b *Board) RemovePlacemat(id ElementID) {
	p, ok := b.mats[id]
	if !ok {
		return
	}
	if p.Collapsed {
		b.Expand(id) //nolint:errcheck // cannot fail for a known placemat
	}
	delete(b.mats, id)
	delete(b.seqOf, id)
	b.dropFromSnapshots(id)
}

// RemoveEdge removes the edge with the given ID and any snapshot entries
// referencing it. Removing an unknown edge is a no-op.
func (b *Board) RemoveEdge(id ElementID) {
	if _, ok := b.byID[id]; !ok {
		return
	}
	delete(b.byID, id)
	b.edges = slices.DeleteFunc(b.edges, func(e *Edge) bool { return e.ID == id })
	b.dropFromSnapshots(id)
}

// dropFromSnapshots removes the given IDs from every collapsed snapshot so
// deletions never leave dangling snapshot references.
func (b *Board) dropFromSnapshots(ids ...ElementID) {
	for _, p := range b.mats {
		if len(p.Snapshot) == 0 {
			continue
		}
		p.Snapshot = slices.DeleteFunc(p.Snapshot, func(s ElementID) bool {
			return slices.Contains(ids, s)
		})
	}
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node on the board, so
// modifications affect the board.
func (b *Board) Node(id ElementID) (*Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

// Placemat returns the placemat with the given ID and true, or nil and
// false if not found.
func (b *Board) Placemat(id ElementID) (*Placemat, bool) {
	p, ok := b.mats[id]
	return p, ok
}

// Edge returns the edge with the given ID and true, or nil and false if not
// found.
func (b *Board) Edge(id ElementID) (*Edge, bool) {
	e, ok := b.byID[id]
	return e, ok
}

// Element returns the node or placemat with the given ID as an [Element].
// Edges are not elements and are not found by this method.
func (b *Board) Element(id ElementID) (Element, bool) {
	if n, ok := b.nodes[id]; ok {
		return n, true
	}
	if p, ok := b.mats[id]; ok {
		return p, true
	}
	return nil, false
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
// The returned slice contains pointers to the actual nodes.
func (b *Board) Nodes() []*Node {
	nodes := make([]*Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, c *Node) int {
		switch {
		case a.ID < c.ID:
			return -1
		case a.ID > c.ID:
			return 1
		}
		return 0
	})
	return nodes
}

// Placemats returns all placemats sorted back-to-front (ascending z-order).
// The returned slice contains pointers to the actual placemats.
func (b *Board) Placemats() []*Placemat {
	mats := make([]*Placemat, 0, len(b.mats))
	for _, p := range b.mats {
		mats = append(mats, p)
	}
	slices.SortFunc(mats, func(a, c *Placemat) int {
		if a.ZOrder != c.ZOrder {
			return a.ZOrder - c.ZOrder
		}
		return b.seqOf[a.ID] - b.seqOf[c.ID]
	})
	return mats
}

// Edges returns all edges in insertion order.
// The returned slice contains pointers to the actual edges.
func (b *Board) Edges() []*Edge { return slices.Clone(b.edges) }

// NodeCount returns the number of nodes on the board.
func (b *Board) NodeCount() int { return len(b.nodes) }

// PlacematCount returns the number of placemats on the board.
func (b *Board) PlacematCount() int { return len(b.mats) }

// EdgeCount returns the number of edges on the board.
func (b *Board) EdgeCount() int { return len(b.edges) }

// MoveElement translates a node or placemat by (dx, dy).
// Returns ErrUnknownElement if no such element exists.
func (b *Board) MoveElement(id ElementID, dx, dy float64) error {
	if n, ok := b.nodes[id]; ok {
		n.Bounds = n.Bounds.Translate(dx, dy)
		return nil
	}
	if p, ok := b.mats[id]; ok {
		p.Bounds = p.Bounds.Translate(dx, dy)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownElement, id)
}

// SetBounds replaces the rectangle of a node or placemat.
// Returns ErrUnknownElement if no such element exists.
func (b *Board) SetBounds(id ElementID, r geom.Rect) error {
	if n, ok := b.nodes[id]; ok {
		n.Bounds = r
		return nil
	}
	if p, ok := b.mats[id]; ok {
		p.Bounds = r
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownElement, id)
}

// Validate checks board integrity and returns nil if valid.
// It verifies three constraints:
//
//  1. All edges connect existing nodes
//  2. Z-order is a total order (no two placemats share a value)
//  3. Collapsed snapshots only reference existing elements
//
// Returns ErrInvalidEdgeEndpoint, ErrZOrderCollision, or
// ErrDanglingSnapshot accordingly. Use this before rendering or persisting
// a board that was assembled from untrusted input.
func (b *Board) Validate() error {
	for _, e := range b.edges {
		if _, ok := b.nodes[e.From]; !ok {
			return fmt.Errorf("%w: %s (edge %s)", ErrInvalidEdgeEndpoint, e.From, e.ID)
		}
		if _, ok := b.nodes[e.To]; !ok {
			return fmt.Errorf("%w: %s (edge %s)", ErrInvalidEdgeEndpoint, e.To, e.ID)
		}
	}

	seen := make(map[int]ElementID, len(b.mats))
	for _, p := range b.mats {
		if other, dup := seen[p.ZOrder]; dup {
			return fmt.Errorf("%w: %s and %s at z=%d", ErrZOrderCollision, other, p.ID, p.ZOrder)
		}
		seen[p.ZOrder] = p.ID
	}

	for _, p := range b.mats {
		for _, id := range p.Snapshot {
			if !b.has(id) {
				return fmt.Errorf("%w: %s in placemat %s", ErrDanglingSnapshot, id, p.ID)
			}
		}
	}
	return nil
}

// has reports whether any element (node, placemat, or edge) uses the ID.
func (b *Board) has(id ElementID) bool {
	if _, ok := b.nodes[id]; ok {
		return true
	}
	if _, ok := b.mats[id]; ok {
		return true
	}
	_, ok := b.byID[id]
	return ok
}
