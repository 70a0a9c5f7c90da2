package cli

import (
	"path/filepath"
	"testing"

	"github.com/okislab/placemat/pkg/graph"
)

// runCommand executes the CLI with the given args against a fresh root.
func runCommand(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestNewAndAddCommands(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")

	steps := [][]string{
		{"new", path, "--name", "demo"},
		{"add", "node", path, "--id", "api", "--at", "30,40", "--size", "60,30"},
		{"add", "node", path, "--id", "db", "--at", "300,40"},
		{"add", "placemat", path, "--id", "services", "--title", "Services", "--at", "0,0", "--size", "200,150"},
		{"add", "edge", path, "--from", "api", "--to", "db"},
	}
	for _, args := range steps {
		if err := runCommand(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	b, err := graph.ReadBoardFile(path)
	if err != nil {
		t.Fatalf("read board: %v", err)
	}
	if b.NodeCount() != 2 || b.PlacematCount() != 1 || b.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", b.NodeCount(), b.PlacematCount(), b.EdgeCount())
	}
	if n, ok := b.Node("api"); !ok || n.Bounds.X != 30 || n.Bounds.Y != 40 {
		t.Errorf("node api = %+v", n)
	}
	if name, _ := b.Meta()["name"].(string); name != "demo" {
		t.Errorf("board name = %q, want demo", name)
	}
}

func TestAddNodeRejectsBadPosition(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")
	if err := runCommand(t, c, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := runCommand(t, c, "add", "node", path, "--id", "a", "--at", "oops"); err == nil {
		t.Error("expected error for malformed --at")
	}
}

func TestAddDuplicateNodeFails(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")
	if err := runCommand(t, c, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := runCommand(t, c, "add", "node", path, "--id", "a"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := runCommand(t, c, "add", "node", path, "--id", "a"); err == nil {
		t.Error("expected duplicate ID error")
	}

	// The failed edit must not corrupt the file.
	b, err := graph.ReadBoardFile(path)
	if err != nil {
		t.Fatalf("read board after failed add: %v", err)
	}
	if b.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", b.NodeCount())
	}
}

func TestCollapseExpandCommands(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")

	steps := [][]string{
		{"new", path},
		{"add", "placemat", path, "--id", "services", "--at", "0,0", "--size", "200,150"},
		{"add", "node", path, "--id", "api", "--at", "30,40"},
		{"collapse", path, "services"},
	}
	for _, args := range steps {
		if err := runCommand(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	b, err := graph.ReadBoardFile(path)
	if err != nil {
		t.Fatalf("read board: %v", err)
	}
	p, _ := b.Placemat("services")
	if !p.Collapsed || len(p.Snapshot) == 0 {
		t.Fatalf("placemat not collapsed with snapshot: %+v", p)
	}
	if n, _ := b.Node("api"); !n.Hidden {
		t.Error("member node should be hidden after collapse")
	}

	if err := runCommand(t, c, "expand", path, "services"); err != nil {
		t.Fatalf("expand: %v", err)
	}
	b, err = graph.ReadBoardFile(path)
	if err != nil {
		t.Fatalf("read board: %v", err)
	}
	p, _ = b.Placemat("services")
	if p.Collapsed || len(p.Snapshot) != 0 {
		t.Errorf("placemat still collapsed after expand: %+v", p)
	}
	if n, _ := b.Node("api"); n.Hidden {
		t.Error("member node should be visible after expand")
	}
}

func TestCollapseUnknownPlacemat(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")
	if err := runCommand(t, c, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := runCommand(t, c, "collapse", path, "nope"); err == nil {
		t.Error("expected unknown placemat error")
	}
}

func TestResolveCommand(t *testing.T) {
	c := newTestCLI()
	path := filepath.Join(t.TempDir(), "board.json")

	steps := [][]string{
		{"new", path},
		{"add", "placemat", path, "--id", "services", "--at", "0,0", "--size", "200,150"},
		{"add", "node", path, "--id", "api", "--at", "30,40"},
		{"add", "node", path, "--id", "free", "--at", "400,40"},
		{"resolve", path},
	}
	for _, args := range steps {
		if err := runCommand(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
}

func TestParseBounds(t *testing.T) {
	tests := []struct {
		at, size string
		want     [4]float64
		wantErr  bool
	}{
		{"10,20", "30,40", [4]float64{10, 20, 30, 40}, false},
		{"10,20", "", [4]float64{10, 20, 60, 30}, false},
		{"-5,0.5", "", [4]float64{-5, 0.5, 60, 30}, false},
		{"oops", "", [4]float64{}, true},
		{"1,2", "bad", [4]float64{}, true},
	}
	for _, tt := range tests {
		r, err := parseBounds(tt.at, tt.size, 60, 30)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBounds(%q, %q): expected error", tt.at, tt.size)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBounds(%q, %q): %v", tt.at, tt.size, err)
			continue
		}
		got := [4]float64{r.X, r.Y, r.W, r.H}
		if got != tt.want {
			t.Errorf("parseBounds(%q, %q) = %v, want %v", tt.at, tt.size, got, tt.want)
		}
	}
}
