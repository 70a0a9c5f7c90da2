// Package store persists board documents.
//
// The [Store] interface covers the lifecycle the CLI and server need:
// save a document (allocating an ID on first save), load it back, list
// what exists, and delete. Three backends are provided:
//
//   - [MemoryStore]: in-process storage for tests and ephemeral servers
//   - [FileStore]: one JSON file per board for CLI usage
//   - [MongoStore]: MongoDB-backed storage for server deployments
//
// All backends publish load/save events to the registered
// [observability.StoreHooks].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/okislab/placemat/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a board document does not exist.
	ErrNotFound = errors.New("board not found")

	// ErrInvalidID is returned when a board ID is empty where one is
	// required.
	ErrInvalidID = errors.New("board ID must not be empty")
)

// Summary describes a stored board without its full contents, for
// listings.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Placemats int       `json:"placemats" bson:"placemats"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store persists board documents. Implementations must be safe for
// concurrent use.
type Store interface {
	// Load retrieves a document by ID. Returns [ErrNotFound] if no board
	// with that ID exists.
	Load(ctx context.Context, id string) (graph.Document, error)

	// Save stores a document, overwriting any previous version. If the
	// document has no ID one is allocated; the stored ID is returned.
	Save(ctx context.Context, doc graph.Document) (string, error)

	// List returns summaries of all stored boards.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a board. Deleting a missing board returns
	// [ErrNotFound].
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func summarize(doc graph.Document, updated time.Time) Summary {
	return Summary{
		ID:        doc.ID,
		Name:      doc.Name,
		Nodes:     len(doc.Nodes),
		Placemats: len(doc.Placemats),
		UpdatedAt: updated,
	}
}
