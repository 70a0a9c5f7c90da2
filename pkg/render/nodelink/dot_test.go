package nodelink

import (
	"strings"
	"testing"

	"github.com/okislab/placemat/pkg/errors"
	"github.com/okislab/placemat/pkg/render"
	"github.com/okislab/placemat/pkg/target"
)

func testList() *render.DisplayList {
	return &render.DisplayList{
		Seq: 1,
		Ops: []render.Op{
			{Kind: render.OpRect, Pass: render.PassBackground, ID: "outer",
				Label: "Outer", Style: render.RectStyle{Role: render.RolePlacemat}},
			{Kind: render.OpRect, Pass: render.PassBackground, ID: "inner",
				Label: "Inner", Style: render.RectStyle{Role: render.RolePlacemat, Group: "outer", Z: 1}},
			{Kind: render.OpRect, Pass: render.PassBackground, ID: "archived",
				Label: "Archived", Style: render.RectStyle{Role: render.RoleCollapsed, Z: 2}},
			{Kind: render.OpRect, Pass: render.PassContent, ID: "api",
				Label: "api", Style: render.RectStyle{Role: render.RoleNode, Group: "inner"}},
			{Kind: render.OpRect, Pass: render.PassContent, ID: "db",
				Label: "db", Style: render.RectStyle{Role: render.RoleNode}},
			{Kind: render.OpEdge, Pass: render.PassContent, ID: "api->db", From: "api", To: "db"},
		},
	}
}

func TestToDOTClusters(t *testing.T) {
	dot := ToDOT(testList())

	for _, want := range []string{
		`subgraph "cluster_outer"`,
		`subgraph "cluster_inner"`,
		`"api" [label="api"]`,
		`"db" [label="db"]`,
		`"api" -> "db";`,
		`compound=true;`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Nesting: inner cluster opens after outer, api sits inside inner.
	outerAt := strings.Index(dot, `subgraph "cluster_outer"`)
	innerAt := strings.Index(dot, `subgraph "cluster_inner"`)
	apiAt := strings.Index(dot, `"api" [`)
	if !(outerAt < innerAt && innerAt < apiAt) {
		t.Errorf("cluster nesting out of order: outer=%d inner=%d api=%d", outerAt, innerAt, apiAt)
	}
}

func TestToDOTCollapsedBlock(t *testing.T) {
	dot := ToDOT(testList())

	if strings.Contains(dot, `subgraph "cluster_archived"`) {
		t.Error("collapsed placemat rendered as cluster, want single block")
	}
	if !strings.Contains(dot, `"archived" [label="Archived", shape=box3d`) {
		t.Errorf("collapsed placemat block missing:\n%s", dot)
	}
}

func TestToDOTEmptyList(t *testing.T) {
	dot := ToDOT(&render.DisplayList{Seq: 1})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty list produced malformed DOT:\n%s", dot)
	}
}

func TestNewBackendTargets(t *testing.T) {
	for _, tgt := range []target.Target{target.DOT, target.SVG, target.PNG, target.PDF} {
		if _, err := New(tgt); err != nil {
			t.Errorf("New(%s) failed: %v", tgt.Name, err)
		}
	}

	_, err := New(target.Term)
	if !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Errorf("New(term) error = %v, want INVALID_TARGET", err)
	}
}
