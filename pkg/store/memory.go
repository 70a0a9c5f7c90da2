package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/observability"
)

// MemoryStore is an in-process store for tests and ephemeral servers.
// Contents are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string]graph.Document
	updated map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]graph.Document),
		updated: make(map[string]time.Time),
	}
}

// Load retrieves a document by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (graph.Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	var err error
	if !ok {
		err = ErrNotFound
	}
	observability.Store().OnLoad(ctx, "memory", id, err)
	if err != nil {
		return graph.Document{}, err
	}
	return doc, nil
}

// Save stores a document, allocating an ID if it has none.
func (s *MemoryStore) Save(ctx context.Context, doc graph.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.updated[doc.ID] = time.Now()
	s.mu.Unlock()

	observability.Store().OnSave(ctx, "memory", doc.ID, nil)
	return doc.ID, nil
}

// List returns summaries of all stored boards, sorted by ID.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.docs))
	for id, doc := range s.docs {
		summaries = append(summaries, summarize(doc, s.updated[id]))
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Delete removes a board.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	delete(s.updated, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
