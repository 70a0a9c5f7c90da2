package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/observability"
)

// FileStore is a file-based board store for CLI usage.
// Each board is stored as a JSON document file in a base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based board store.
// If baseDir is empty, defaults to ~/.placemat/boards/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".placemat", "boards")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for board files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) boardPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Load retrieves a document by ID.
func (s *FileStore) Load(ctx context.Context, id string) (graph.Document, error) {
	doc, err := s.load(id)
	observability.Store().OnLoad(ctx, "file", id, err)
	return doc, err
}

func (s *FileStore) load(id string) (graph.Document, error) {
	if id == "" {
		return graph.Document{}, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.boardPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return graph.Document{}, fmt.Errorf("read board file: %w", err)
	}

	doc, err := graph.UnmarshalDocument(data)
	if err != nil {
		return graph.Document{}, fmt.Errorf("parse board %s: %w", id, err)
	}
	doc.ID = id
	return doc, nil
}

// Save stores a document, allocating an ID if it has none.
func (s *FileStore) Save(ctx context.Context, doc graph.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		observability.Store().OnSave(ctx, "file", doc.ID, err)
		return "", fmt.Errorf("marshal board: %w", err)
	}

	if err := os.WriteFile(s.boardPath(doc.ID), data, 0644); err != nil {
		observability.Store().OnSave(ctx, "file", doc.ID, err)
		return "", fmt.Errorf("write board file: %w", err)
	}

	observability.Store().OnSave(ctx, "file", doc.ID, nil)
	return doc.ID, nil
}

// List returns summaries of all stored boards, sorted by ID.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read board dir: %w", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		doc, err := graph.UnmarshalDocument(data)
		if err != nil {
			// Skip unparsable files rather than failing the whole listing.
			continue
		}
		doc.ID = id

		var updated time.Time
		if info, err := entry.Info(); err == nil {
			updated = info.ModTime()
		}
		summaries = append(summaries, summarize(doc, updated))
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Delete removes a board file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.boardPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("remove board file: %w", err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
