package term

import (
	"context"
	"strings"
	"testing"

	"github.com/okislab/placemat/pkg/geom"
	"github.com/okislab/placemat/pkg/render"
)

func flush(t *testing.T, b *Backend, list *render.DisplayList) string {
	t.Helper()
	out, err := b.Flush(context.Background(), list)
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return string(out)
}

func TestFlushDrawsLabels(t *testing.T) {
	list := &render.DisplayList{
		Seq: 1,
		Ops: []render.Op{
			{Kind: render.OpRect, Pass: render.PassBackground, ID: "services",
				Bounds: geom.Rect{X: 0, Y: 0, W: 200, H: 150},
				Label:  "Services", Style: render.RectStyle{Role: render.RolePlacemat}},
			{Kind: render.OpRect, Pass: render.PassContent, ID: "api",
				Bounds: geom.Rect{X: 30, Y: 40, W: 60, H: 30},
				Label:  "api", Style: render.RectStyle{Role: render.RoleNode, Group: "services"}},
			{Kind: render.OpText, Pass: render.PassOverlay,
				At: geom.Point{X: 0, Y: 0}, Label: "Services"},
		},
	}

	out := flush(t, New(WithColor(false)), list)

	if !strings.Contains(out, "api") {
		t.Errorf("canvas missing node label:\n%s", out)
	}
	if !strings.Contains(out, "Services") {
		t.Errorf("canvas missing placemat title:\n%s", out)
	}
	if !strings.Contains(out, "╭") || !strings.Contains(out, "╯") {
		t.Errorf("canvas missing rect borders:\n%s", out)
	}
}

func TestFlushCollapsedFill(t *testing.T) {
	list := &render.DisplayList{
		Seq: 1,
		Ops: []render.Op{
			{Kind: render.OpRect, Pass: render.PassBackground, ID: "archived",
				Bounds: geom.Rect{X: 0, Y: 0, W: 100, H: 60},
				Label:  "Archived", Style: render.RectStyle{Role: render.RoleCollapsed}},
		},
	}

	out := flush(t, New(WithColor(false)), list)
	if !strings.Contains(out, "░") {
		t.Errorf("collapsed placemat missing fill:\n%s", out)
	}
	if !strings.Contains(out, "Archived") {
		t.Errorf("collapsed placemat missing label:\n%s", out)
	}
}

func TestFlushEdgeConnector(t *testing.T) {
	list := &render.DisplayList{
		Seq: 1,
		Ops: []render.Op{
			{Kind: render.OpRect, Pass: render.PassContent, ID: "a",
				Bounds: geom.Rect{X: 0, Y: 0, W: 20, H: 20}, Label: "a",
				Style: render.RectStyle{Role: render.RoleNode}},
			{Kind: render.OpRect, Pass: render.PassContent, ID: "b",
				Bounds: geom.Rect{X: 180, Y: 0, W: 20, H: 20}, Label: "b",
				Style: render.RectStyle{Role: render.RoleNode}},
			{Kind: render.OpEdge, Pass: render.PassContent, ID: "a->b", From: "a", To: "b"},
		},
	}

	out := flush(t, New(WithColor(false)), list)
	if !strings.Contains(out, "·") {
		t.Errorf("edge connector missing:\n%s", out)
	}
}

func TestFlushEmptyList(t *testing.T) {
	out := flush(t, New(WithSize(10, 3), WithColor(false)), &render.DisplayList{Seq: 1})
	if out != "\n\n\n" {
		t.Errorf("empty canvas = %q, want three blank lines", out)
	}
}

func TestFlushDeterministic(t *testing.T) {
	list := &render.DisplayList{
		Seq: 1,
		Ops: []render.Op{
			{Kind: render.OpRect, Pass: render.PassContent, ID: "n",
				Bounds: geom.Rect{X: 10, Y: 10, W: 40, H: 20}, Label: "n",
				Style: render.RectStyle{Role: render.RoleNode}},
		},
	}

	b := New(WithColor(false))
	if first, second := flush(t, b, list), flush(t, b, list); first != second {
		t.Error("identical lists rendered differently")
	}
}
