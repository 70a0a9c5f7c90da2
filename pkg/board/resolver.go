package board

import (
	"slices"

	"github.com/okislab/placemat/pkg/geom"
	"github.com/okislab/placemat/pkg/observability"
)

// DefaultMargin is the distance by which a placemat's rectangle is shrunk
// before containment testing. Elements that barely graze a placemat's border
// are not considered to be over it.
const DefaultMargin = 6.0

// Resolver answers spatial containment queries against a single board
// state. It is cheap to construct; build a fresh one after mutating the
// board rather than reusing a stale instance.
//
// Ownership model: every element belongs to at most one region - the
// placemat with the highest z-order whose interior (bounds shrunk by the
// margin) overlaps the element. Since nested placemats stack in front of
// the placemats that contain them, the highest overlapping z-order is
// always the innermost enclosing region.
type Resolver struct {
	board  *Board
	margin float64
}

// NewResolver creates a resolver over b using [DefaultMargin].
func NewResolver(b *Board) *Resolver {
	return &Resolver{board: b, margin: DefaultMargin}
}

// WithMargin returns a resolver with a custom containment margin.
// The margin shrinks each placemat interior on every side; zero disables
// the tolerance entirely.
func (r *Resolver) WithMargin(margin float64) *Resolver {
	return &Resolver{board: r.board, margin: margin}
}

// interior returns the containment test rectangle for a placemat.
func (r *Resolver) interior(p *Placemat) geom.Rect {
	return p.Bounds.Inflate(-r.margin)
}

// Owner returns the innermost enclosing placemat of the element, or nil if
// no placemat claims it. For a node this is the highest-z placemat whose
// interior overlaps the node. For a placemat, only placemats behind it
// (lower z-order) are candidates: a region cannot be owned by a region
// nested inside it.
func (r *Resolver) Owner(e Element) *Placemat {
	bounds := e.ElementBounds()
	maxZ := 0
	if p, isMat := e.(*Placemat); isMat {
		maxZ = p.ZOrder
	}

	var owner *Placemat
	for _, q := range r.board.Placemats() {
		if q.ElementID() == e.ElementID() {
			continue
		}
		if _, isMat := e.(*Placemat); isMat && q.ZOrder >= maxZ {
			continue
		}
		if !r.interior(q).Overlaps(bounds) {
			continue
		}
		if owner == nil || q.ZOrder > owner.ZOrder {
			owner = q
		}
	}
	return owner
}

// ElementsOver returns the direct members of the placemat.
//
// For an expanded placemat these are the elements whose bounds overlap the
// placemat's interior and that are not owned by a deeper (higher z-order)
// region: nested placemats claim their own members first, and appear
// themselves as single members of the enclosing region.
//
// For a collapsed placemat the current layout is ignored entirely and the
// snapshot captured at collapse time is returned instead. Edge IDs stored
// in the snapshot are skipped; edges are derived members, not elements.
//
// The result is sorted by ID for deterministic output.
func (r *Resolver) ElementsOver(p *Placemat) []Element {
	observability.Resolver().OnResolve(string(p.ID), p.Collapsed)

	if p.Collapsed {
		var members []Element
		for _, id := range p.Snapshot {
			if e, ok := r.board.Element(id); ok {
				members = append(members, e)
			}
		}
		sortElements(members)
		return members
	}

	interior := r.interior(p)
	var members []Element
	for _, n := range r.board.Nodes() {
		if interior.Overlaps(n.Bounds) && r.Owner(n) == p {
			members = append(members, n)
		}
	}
	for _, q := range r.board.Placemats() {
		if q == p || q.ZOrder <= p.ZOrder {
			continue
		}
		if interior.Overlaps(q.Bounds) && r.Owner(q) == p {
			members = append(members, q)
		}
	}
	sortElements(members)
	return members
}

// MemberSet returns the transitive member set of the placemat: its direct
// movable members plus, for every member that is itself a placemat, that
// region's movable members recursively. Collapsed regions contribute their
// snapshots, never a recomputation from the current layout. Pinned elements
// are excluded: they never follow a region, so nothing derived from
// membership (collapse capture, edge containment) may include them.
//
// The placemat's own ID is not part of the set.
func (r *Resolver) MemberSet(p *Placemat) map[ElementID]bool {
	set := make(map[ElementID]bool)
	r.collectMembers(p, set)
	return set
}

func (r *Resolver) collectMembers(p *Placemat, set map[ElementID]bool) {
	for _, m := range r.ElementsOver(p) {
		if !m.IsMovable() {
			continue
		}
		id := m.ElementID()
		if set[id] {
			continue // already claimed via another branch
		}
		set[id] = true
		if nested, ok := m.(*Placemat); ok {
			r.collectMembers(nested, set)
		}
	}
}

// EdgesOver returns the edges whose both endpoint nodes resolve into the
// placemat's transitive member set. An edge with only one endpoint inside
// the region crosses its boundary and is not a member; an edge to a pinned
// node is always a boundary crossing, since pinned nodes belong to no
// region.
func (r *Resolver) EdgesOver(p *Placemat) []*Edge {
	members := r.MemberSet(p)
	var edges []*Edge
	for _, e := range r.board.Edges() {
		if members[e.From] && members[e.To] {
			edges = append(edges, e)
		}
	}
	return edges
}

// Tree builds the region nesting tree for the whole board: explicit
// parent/child links derived from the current ownership relation. Roots are
// placemats with no enclosing region; free elements not claimed by any
// placemat are listed under Free.
func (r *Resolver) Tree() *RegionTree {
	tree := &RegionTree{
		parent:   make(map[ElementID]ElementID),
		children: make(map[ElementID][]ElementID),
	}

	claim := func(e Element) {
		if owner := r.Owner(e); owner != nil {
			tree.parent[e.ElementID()] = owner.ID
			tree.children[owner.ID] = append(tree.children[owner.ID], e.ElementID())
		}
	}

	for _, p := range r.board.Placemats() {
		claim(p)
	}
	for _, n := range r.board.Nodes() {
		claim(n)
		if _, owned := tree.parent[n.ID]; !owned {
			tree.Free = append(tree.Free, n.ID)
		}
	}
	for _, p := range r.board.Placemats() {
		if _, owned := tree.parent[p.ID]; !owned {
			tree.Roots = append(tree.Roots, p.ID)
		}
	}
	for id := range tree.children {
		slices.Sort(tree.children[id])
	}
	slices.Sort(tree.Roots)
	slices.Sort(tree.Free)
	return tree
}

// RegionTree is a snapshot of the board's region nesting: parent and child
// links between placemats and their members. It is derived data; rebuild it
// after the board changes.
type RegionTree struct {
	Roots []ElementID // top-level placemats (no enclosing region)
	Free  []ElementID // nodes not claimed by any placemat

	parent   map[ElementID]ElementID
	children map[ElementID][]ElementID
}

// Parent returns the enclosing region of the element and true, or "" and
// false for roots and free elements.
func (t *RegionTree) Parent(id ElementID) (ElementID, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Children returns the direct members of a region in sorted order.
// The returned slice should not be modified.
func (t *RegionTree) Children(id ElementID) []ElementID { return t.children[id] }

// Depth returns the nesting depth of the element: 0 for roots and free
// elements, 1 for direct members of a root region, and so on.
func (t *RegionTree) Depth(id ElementID) int {
	depth := 0
	for {
		p, ok := t.parent[id]
		if !ok {
			return depth
		}
		depth++
		id = p
	}
}

func sortElements(members []Element) {
	slices.SortFunc(members, func(a, b Element) int {
		switch {
		case a.ElementID() < b.ElementID():
			return -1
		case a.ElementID() > b.ElementID():
			return 1
		}
		return 0
	})
}
