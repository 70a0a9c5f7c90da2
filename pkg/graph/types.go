package graph

import (
	"encoding/json"
	"fmt"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Render formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// =============================================================================
// Document - Board Serialization
// =============================================================================

// Document is the canonical serialization format for placemat boards.
// Used for files, API responses, storage, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// load → edit → save → re-load produces identical results, including the
// collapse state of placemats.
type Document struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Nodes     []Node         `json:"nodes" bson:"nodes"`
	Placemats []PlacematDef  `json:"placemats,omitempty" bson:"placemats,omitempty"`
	Edges     []Edge         `json:"edges,omitempty" bson:"edges,omitempty"`
	Meta      map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is the serialized form of a board node.
type Node struct {
	ID      string         `json:"id" bson:"id"`
	Label   string         `json:"label,omitempty" bson:"label,omitempty"`
	X       float64        `json:"x" bson:"x"`
	Y       float64        `json:"y" bson:"y"`
	W       float64        `json:"w" bson:"w"`
	H       float64        `json:"h" bson:"h"`
	Movable bool           `json:"movable,omitempty" bson:"movable,omitempty"`
	Hidden  bool           `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Meta    map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// PlacematDef is the serialized form of a placemat group region.
type PlacematDef struct {
	ID        string         `json:"id" bson:"id"`
	Title     string         `json:"title,omitempty" bson:"title,omitempty"`
	X         float64        `json:"x" bson:"x"`
	Y         float64        `json:"y" bson:"y"`
	W         float64        `json:"w" bson:"w"`
	H         float64        `json:"h" bson:"h"`
	Z         int            `json:"z" bson:"z"`
	Collapsed bool           `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	Snapshot  []string       `json:"snapshot,omitempty" bson:"snapshot,omitempty"`
	Hidden    bool           `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Meta      map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Edge is the serialized form of a directed wire between two nodes.
type Edge struct {
	ID     string         `json:"id,omitempty" bson:"id,omitempty"`
	From   string         `json:"from" bson:"from"`
	To     string         `json:"to" bson:"to"`
	Hidden bool           `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// =============================================================================
// Board ↔ Document Conversion
// =============================================================================

// FromBoard converts a board to its serialization format.
// Nodes are sorted by ID and placemats by z-order for deterministic output.
func FromBoard(b *board.Board) Document {
	doc := Document{
		Nodes: make([]Node, 0, b.NodeCount()),
		Meta:  copyMeta(b.Meta()),
	}

	for _, n := range b.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			ID:      string(n.ID),
			Label:   n.Label,
			X:       n.Bounds.X,
			Y:       n.Bounds.Y,
			W:       n.Bounds.W,
			H:       n.Bounds.H,
			Movable: n.Movable,
			Hidden:  n.Hidden,
			Meta:    copyMeta(n.Meta),
		})
	}

	for _, p := range b.Placemats() {
		def := PlacematDef{
			ID:        string(p.ID),
			Title:     p.Title,
			X:         p.Bounds.X,
			Y:         p.Bounds.Y,
			W:         p.Bounds.W,
			H:         p.Bounds.H,
			Z:         p.ZOrder,
			Collapsed: p.Collapsed,
			Hidden:    p.Hidden,
			Meta:      copyMeta(p.Meta),
		}
		for _, id := range p.Snapshot {
			def.Snapshot = append(def.Snapshot, string(id))
		}
		doc.Placemats = append(doc.Placemats, def)
	}

	for _, e := range b.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			ID:     string(e.ID),
			From:   string(e.From),
			To:     string(e.To),
			Hidden: e.Hidden,
			Meta:   copyMeta(e.Meta),
		})
	}

	return doc
}

// ToBoard converts a Document to a board.
// Returns an error if the structure violates board constraints (duplicate
// IDs, dangling edge endpoints, snapshot references to missing elements).
func ToBoard(doc Document) (*board.Board, error) {
	b := board.New(board.Metadata(copyMeta(doc.Meta)))

	for _, nj := range doc.Nodes {
		n := board.Node{
			ID:      board.ElementID(nj.ID),
			Label:   nj.Label,
			Bounds:  geom.Rect{X: nj.X, Y: nj.Y, W: nj.W, H: nj.H},
			Movable: nj.Movable,
			Hidden:  nj.Hidden,
			Meta:    board.Metadata(copyMeta(nj.Meta)),
		}
		if err := b.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, pj := range doc.Placemats {
		p := board.Placemat{
			ID:        board.ElementID(pj.ID),
			Title:     pj.Title,
			Bounds:    geom.Rect{X: pj.X, Y: pj.Y, W: pj.W, H: pj.H},
			ZOrder:    pj.Z,
			Collapsed: pj.Collapsed,
			Hidden:    pj.Hidden,
			Meta:      board.Metadata(copyMeta(pj.Meta)),
		}
		for _, id := range pj.Snapshot {
			p.Snapshot = append(p.Snapshot, board.ElementID(id))
		}
		if err := b.AddPlacemat(p); err != nil {
			return nil, fmt.Errorf("add placemat %s: %w", pj.ID, err)
		}
	}

	for _, ej := range doc.Edges {
		e := board.Edge{
			ID:     board.ElementID(ej.ID),
			From:   board.ElementID(ej.From),
			To:     board.ElementID(ej.To),
			Hidden: ej.Hidden,
			Meta:   board.Metadata(copyMeta(ej.Meta)),
		}
		if err := b.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return b, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
