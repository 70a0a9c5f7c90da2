package render

import (
	"context"
	"testing"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
)

func sceneBoard(t *testing.T) *board.Board {
	t.Helper()
	b := board.New(nil)
	mustAdd := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("fixture setup failed: %v", err)
		}
	}
	mustAdd(b.AddPlacemat(board.Placemat{
		ID: "services", Title: "Services",
		Bounds: geom.Rect{X: 0, Y: 0, W: 200, H: 150}, ZOrder: 0,
	}))
	mustAdd(b.AddNode(board.Node{
		ID: "api", Bounds: geom.Rect{X: 30, Y: 40, W: 50, H: 30}, Movable: true,
	}))
	mustAdd(b.AddNode(board.Node{
		ID: "db", Bounds: geom.Rect{X: 300, Y: 40, W: 50, H: 30}, Movable: true,
	}))
	mustAdd(b.AddEdge(board.Edge{From: "api", To: "db"}))
	mustAdd(b.AddEdge(board.Edge{From: "db", To: "api"}))
	return b
}

func renderScene(t *testing.T, b *board.Board) *DisplayList {
	t.Helper()
	be := &captureBackend{}
	eng := NewEngine(be)
	f, err := eng.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := BuildScene(f, b, board.NewResolver(b)); err != nil {
		t.Fatalf("BuildScene failed: %v", err)
	}
	if _, err := f.End(context.Background()); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	return be.lists[0]
}

func opIDs(ops []Op) map[board.ElementID]Op {
	m := make(map[board.ElementID]Op, len(ops))
	for _, op := range ops {
		m[op.ID] = op
	}
	return m
}

func TestBuildScene(t *testing.T) {
	b := sceneBoard(t)
	list := renderScene(t, b)

	bg := opIDs(list.PassOps(PassBackground))
	mat, ok := bg["services"]
	if !ok {
		t.Fatal("background pass missing placemat rect")
	}
	if mat.Style.Role != RolePlacemat {
		t.Errorf("expanded placemat role = %v, want RolePlacemat", mat.Style.Role)
	}
	if mat.Label != "Services" {
		t.Errorf("placemat label = %q, want title", mat.Label)
	}

	content := list.PassOps(PassContent)
	ids := opIDs(content)
	api, ok := ids["api"]
	if !ok {
		t.Fatal("content pass missing node api")
	}
	if api.Style.Group != "services" {
		t.Errorf("api group = %q, want services", api.Style.Group)
	}
	db := ids["db"]
	if db.Style.Group != "" {
		t.Errorf("free node group = %q, want empty", db.Style.Group)
	}
	if _, ok := ids["api->db"]; !ok {
		t.Error("content pass missing edge api->db")
	}

	overlay := list.PassOps(PassOverlay)
	if len(overlay) != 1 || overlay[0].Label != "Services" {
		t.Errorf("overlay = %+v, want single Services title", overlay)
	}
}

func TestBuildSceneSkipsHidden(t *testing.T) {
	b := sceneBoard(t)
	if err := b.Collapse("services"); err != nil {
		t.Fatalf("Collapse failed: %v", err)
	}
	list := renderScene(t, b)

	bg := opIDs(list.PassOps(PassBackground))
	mat := bg["services"]
	if mat.Style.Role != RoleCollapsed {
		t.Errorf("collapsed placemat role = %v, want RoleCollapsed", mat.Style.Role)
	}

	content := opIDs(list.PassOps(PassContent))
	if _, ok := content["api"]; ok {
		t.Error("hidden node api still rendered")
	}
	if _, ok := content["db"]; !ok {
		t.Error("visible node db missing")
	}
	// Both edges touch the hidden api node; neither may render.
	if _, ok := content["api->db"]; ok {
		t.Error("edge with hidden source still rendered")
	}
	if _, ok := content["db->api"]; ok {
		t.Error("edge with hidden target still rendered")
	}
}

func TestBuildSceneRestoredAfterExpand(t *testing.T) {
	b := sceneBoard(t)
	before := len(renderScene(t, b).Ops)

	if err := b.Collapse("services"); err != nil {
		t.Fatalf("Collapse failed: %v", err)
	}
	if err := b.Expand("services"); err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	after := len(renderScene(t, b).Ops)
	if after != before {
		t.Errorf("op count after collapse/expand = %d, want %d", after, before)
	}
}
