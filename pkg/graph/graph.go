package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okislab/placemat/pkg/board"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalBoard converts a board to JSON bytes.
// Elements are sorted (nodes by ID, placemats by z-order) for deterministic
// output.
func MarshalBoard(b *board.Board) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBoardTo(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBoardFile writes a board to a JSON file.
// The file is created with 0644 permissions.
func WriteBoardFile(b *board.Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeBoardTo(b, f)
}

// WriteBoard writes a board as JSON to an io.Writer.
// Use MarshalBoard for in-memory serialization or WriteBoardFile for files.
func WriteBoard(b *board.Board, w io.Writer) error {
	return writeBoardTo(b, w)
}

// ReadBoardFile reads a JSON file and returns the decoded board.
// Returns validation errors for malformed documents or board constraint
// violations.
func ReadBoardFile(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readBoardFrom(f)
}

// ReadBoard decodes a JSON document from an io.Reader into a board.
// Use ReadBoardFile for files or pass bytes.NewReader for in-memory data.
func ReadBoard(r io.Reader) (*board.Board, error) {
	return readBoardFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeBoardTo(b *board.Board, w io.Writer) error {
	out := FromBoard(b)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readBoardFrom(r io.Reader) (*board.Board, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToBoard(doc)
}
