package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/httputil"
	"github.com/okislab/placemat/pkg/observability"
)

const mongoCollection = "boards"

// mongoDoc wraps a board document with storage metadata.
type mongoDoc struct {
	ID        string         `bson:"_id"`
	Doc       graph.Document `bson:"doc"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// MongoStore is a MongoDB-backed board store for server deployments.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping. uri is a standard connection string ("mongodb://host:27017");
// boards live in the given database under the "boards" collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	// Ping with backoff so a briefly unavailable instance does not fail the
	// whole command.
	err = httputil.Retry(ctx, 3, time.Second, func() error {
		return httputil.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

// Load retrieves a document by ID.
func (s *MongoStore) Load(ctx context.Context, id string) (graph.Document, error) {
	doc, err := s.load(ctx, id)
	observability.Store().OnLoad(ctx, "mongo", id, err)
	return doc, err
}

func (s *MongoStore) load(ctx context.Context, id string) (graph.Document, error) {
	if id == "" {
		return graph.Document{}, ErrInvalidID
	}

	var md mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&md)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return graph.Document{}, fmt.Errorf("find board %s: %w", id, err)
	}
	md.Doc.ID = md.ID
	return md.Doc, nil
}

// Save stores a document with upsert semantics, allocating an ID if it
// has none.
func (s *MongoStore) Save(ctx context.Context, doc graph.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	md := mongoDoc{ID: doc.ID, Doc: doc, UpdatedAt: time.Now()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, md, options.Replace().SetUpsert(true))
	observability.Store().OnSave(ctx, "mongo", doc.ID, err)
	if err != nil {
		return "", fmt.Errorf("save board %s: %w", doc.ID, err)
	}
	return doc.ID, nil
}

// List returns summaries of all stored boards, sorted by ID.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer cur.Close(ctx)

	var summaries []Summary
	for cur.Next(ctx) {
		var md mongoDoc
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode board: %w", err)
		}
		md.Doc.ID = md.ID
		summaries = append(summaries, summarize(md.Doc, md.UpdatedAt))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return summaries, nil
}

// Delete removes a board.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
