package board

import (
	"github.com/okislab/placemat/pkg/observability"
)

// Collapse transitions a placemat to the collapsed state.
//
// The containment resolver runs exactly once: the snapshot captures the
// placemat's directly-overlapping movable members, plus every edge whose
// both endpoints resolve into the region's transitive member set
// (recursively through nested collapsed placemats). Snapshot members are
// hidden, along with the live members of any nested expanded region; a
// nested collapsed region is hidden as a single element and keeps its own
// snapshot untouched. The placemat itself stays visible as the compact
// stand-in for its contents.
//
// Collapsing an already-collapsed placemat is a no-op: the original
// snapshot is kept and nothing is re-resolved. Returns ErrUnknownElement or
// ErrNotAPlacemat when the ID does not name a placemat.
func (b *Board) Collapse(id ElementID) error {
	p, err := b.placemat(id)
	if err != nil {
		return err
	}
	if p.Collapsed {
		return nil
	}

	r := NewResolver(b)

	var snapshot []ElementID
	for _, m := range r.ElementsOver(p) {
		if !m.IsMovable() {
			continue // pinned elements stay on the board
		}
		snapshot = append(snapshot, m.ElementID())
	}
	for _, e := range r.EdgesOver(p) {
		snapshot = append(snapshot, e.ID)
	}

	for _, sid := range snapshot {
		b.setHidden(sid, true)
		b.setNestedHidden(r, sid, true)
	}
	p.Snapshot = snapshot
	p.Collapsed = true

	observability.Board().OnCollapse(string(p.ID), len(snapshot))
	return nil
}

// Expand transitions a placemat back to the expanded state, restoring its
// snapshot members and edges to default visibility and discarding the
// snapshot. The restore recurses through nested expanded regions exactly as
// the collapse did; a nested placemat that is itself still collapsed
// reappears as a single element and its own snapshot stays hidden.
//
// Expanding an already-expanded placemat is a no-op. Returns
// ErrUnknownElement or ErrNotAPlacemat when the ID does not name a
// placemat.
func (b *Board) Expand(id ElementID) error {
	p, err := b.placemat(id)
	if err != nil {
		return err
	}
	if !p.Collapsed {
		return nil
	}

	// Clear the collapsed state first so the resolver sees this region as
	// live while restoring nested members.
	snapshot := p.Snapshot
	p.Snapshot = nil
	p.Collapsed = false

	r := NewResolver(b)
	for _, sid := range snapshot {
		b.setHidden(sid, false)
		b.setNestedHidden(r, sid, false)
	}

	observability.Board().OnExpand(string(p.ID), len(snapshot))
	return nil
}

// setNestedHidden propagates a visibility change into a nested expanded
// region: its live members follow the enclosing collapse. A nested
// collapsed region is a boundary - its snapshot belongs to its own
// transition and is never touched here.
func (b *Board) setNestedHidden(r *Resolver, id ElementID, hidden bool) {
	q, ok := b.mats[id]
	if !ok || q.Collapsed {
		return
	}
	for _, m := range r.ElementsOver(q) {
		if !m.IsMovable() {
			continue
		}
		b.setHidden(m.ElementID(), hidden)
		b.setNestedHidden(r, m.ElementID(), hidden)
	}
}

// setHidden flips the visibility flag on a node, placemat, or edge.
// Unknown IDs are ignored; snapshots drop references on element removal,
// but a stale ID must never panic mid-transition.
func (b *Board) setHidden(id ElementID, hidden bool) {
	if n, ok := b.nodes[id]; ok {
		n.Hidden = hidden
		return
	}
	if p, ok := b.mats[id]; ok {
		p.Hidden = hidden
		return
	}
	if e, ok := b.byID[id]; ok {
		e.Hidden = hidden
	}
}
