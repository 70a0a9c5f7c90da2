// Package board implements the placemat board model: a node-graph document
// whose nodes can be grouped by resizable placemat regions.
//
// # Model
//
// A [Board] is an arena of three element kinds:
//
//   - [Node]: a positioned rectangle with a movability flag
//   - [Placemat]: a group region with a z-order and a collapse state
//   - [Edge]: a directed wire between two nodes
//
// Placemats stack in a strict z-order behind the nodes. Nesting is not
// stored; it is derived from geometry and stacking by [Resolver], so moving
// an element in or out of a region is just a bounds change.
//
// # Containment
//
// [Resolver.ElementsOver] answers "which elements are over this region":
// the elements overlapping the region's interior that are not claimed by a
// deeper region. Because nested placemats always stack in front of the
// regions containing them, ownership reduces to "highest overlapping
// z-order wins", and every element resolves to exactly one innermost
// enclosing region.
//
// # Collapse
//
// [Board.Collapse] snapshots a region's movable members and interior edges,
// hides them, and freezes the membership: while collapsed, containment
// queries return the snapshot regardless of how the rest of the board moves
// around the region. [Board.Expand] restores the members and discards the
// snapshot. Both transitions are idempotent.
//
// # Usage
//
//	b := board.New(nil)
//	b.AddNode(board.Node{ID: "a", Bounds: geom.Rect{X: 20, Y: 20, W: 40, H: 30}, Movable: true})
//	b.AddPlacemat(board.Placemat{ID: "group", Bounds: geom.Rect{X: 0, Y: 0, W: 200, H: 150}})
//
//	r := board.NewResolver(b)
//	mat, _ := b.Placemat("group")
//	members := r.ElementsOver(mat) // [a]
//
//	b.Collapse("group") // hides a, snapshot = [a]
//	b.Expand("group")   // restores a
//
// Board is single-threaded by design: it models an editor document mutated
// from a UI update loop, and no operation blocks.
package board
