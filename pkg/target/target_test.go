package target

import (
	"strings"
	"testing"

	"github.com/okislab/placemat/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"exact match", "svg", "svg", false},
		{"uppercase", "PNG", "png", false},
		{"leading dot", ".pdf", "pdf", false},
		{"surrounding space", " dot ", "dot", false},
		{"terminal", "term", "term", false},
		{"unknown", "bmp", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Lookup(%q) expected error, got %+v", tt.input, got)
				}
				if !errors.Is(err, errors.ErrCodeInvalidTarget) {
					t.Errorf("Lookup(%q) error code = %v, want INVALID_TARGET", tt.input, errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.input, err)
			}
			if got.Name != tt.want {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestLookupErrorListsChoices(t *testing.T) {
	_, err := Lookup("tiff")
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
	for _, name := range Names() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error message missing valid target %q: %v", name, err)
		}
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"svg file", "diagram.svg", "svg", false},
		{"nested path", "out/renders/board.png", "png", false},
		{"uppercase extension", "BOARD.PDF", "pdf", false},
		{"dot in directory only", "v1.2/board", "", true},
		{"no extension", "board", "", true},
		{"unknown extension", "board.tiff", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ForPath(%q) expected error, got %+v", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForPath(%q) unexpected error: %v", tt.path, err)
			}
			if got.Name != tt.want {
				t.Errorf("ForPath(%q).Name = %q, want %q", tt.path, got.Name, tt.want)
			}
		})
	}
}

func TestTargetProperties(t *testing.T) {
	if !PNG.IsRaster() {
		t.Error("PNG should be a raster target")
	}
	if SVG.IsRaster() {
		t.Error("SVG should not be a raster target")
	}
	if !Term.TextOnly {
		t.Error("Term should be text-only")
	}
	if Term.Extension != "" {
		t.Errorf("Term.Extension = %q, want empty", Term.Extension)
	}
	if PNG.Density != 2.0 {
		t.Errorf("PNG.Density = %v, want 2.0", PNG.Density)
	}
}
