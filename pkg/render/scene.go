package render

import (
	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
)

// BuildScene records the standard three-pass scene for a board into the
// frame: placemat bodies in the background pass, nodes and edges in the
// content pass, placemat titles in the overlay pass.
//
// Hidden elements are skipped, as are edges with a hidden endpoint, so a
// collapsed placemat renders as a single compact region with its interior
// wiring absent. The resolver supplies ownership so backends that support
// nesting can group members under their region.
func BuildScene(f *Frame, b *board.Board, r *board.Resolver) error {
	if err := f.BeginPass(PassBackground); err != nil {
		return err
	}

	var (
		matIDs    []board.ElementID
		matBounds []geom.Rect
		matLabels []string
		matStyles []RectStyle
	)
	for _, p := range b.Placemats() {
		if p.Hidden {
			continue
		}
		role := RolePlacemat
		if p.Collapsed {
			role = RoleCollapsed
		}
		style := RectStyle{Role: role, Z: p.ZOrder}
		if owner := r.Owner(p); owner != nil {
			style.Group = owner.ID
		}
		matIDs = append(matIDs, p.ID)
		matBounds = append(matBounds, p.Bounds)
		matLabels = append(matLabels, p.Title)
		matStyles = append(matStyles, style)
	}
	if err := f.DrawRects(matIDs, matBounds, matLabels, matStyles); err != nil {
		return err
	}
	if err := f.EndPass(); err != nil {
		return err
	}

	if err := f.BeginPass(PassContent); err != nil {
		return err
	}

	var (
		nodeIDs    []board.ElementID
		nodeBounds []geom.Rect
		nodeLabels []string
		nodeStyles []RectStyle
	)
	for _, n := range b.Nodes() {
		if n.Hidden {
			continue
		}
		style := RectStyle{Role: RoleNode}
		if owner := r.Owner(n); owner != nil {
			style.Group = owner.ID
		}
		label := n.Label
		if label == "" {
			label = string(n.ID)
		}
		nodeIDs = append(nodeIDs, n.ID)
		nodeBounds = append(nodeBounds, n.Bounds)
		nodeLabels = append(nodeLabels, label)
		nodeStyles = append(nodeStyles, style)
	}
	if err := f.DrawRects(nodeIDs, nodeBounds, nodeLabels, nodeStyles); err != nil {
		return err
	}

	var edgeIDs, edgeFrom, edgeTo []board.ElementID
	for _, e := range b.Edges() {
		if e.Hidden || endpointHidden(b, e.From) || endpointHidden(b, e.To) {
			continue
		}
		edgeIDs = append(edgeIDs, e.ID)
		edgeFrom = append(edgeFrom, e.From)
		edgeTo = append(edgeTo, e.To)
	}
	if err := f.DrawEdges(edgeIDs, edgeFrom, edgeTo); err != nil {
		return err
	}
	if err := f.EndPass(); err != nil {
		return err
	}

	if err := f.BeginPass(PassOverlay); err != nil {
		return err
	}
	var titleAt []geom.Point
	var titles []string
	for _, p := range b.Placemats() {
		if p.Hidden || p.Title == "" {
			continue
		}
		titleAt = append(titleAt, geom.Point{X: p.Bounds.X, Y: p.Bounds.Y})
		titles = append(titles, p.Title)
	}
	if err := f.DrawTexts(titleAt, titles); err != nil {
		return err
	}
	return f.EndPass()
}

func endpointHidden(b *board.Board, id board.ElementID) bool {
	n, ok := b.Node(id)
	return ok && n.Hidden
}
