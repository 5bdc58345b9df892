package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	Users         = "users"
	Posts         = "posts"
	Comments      = "comments"
	Likes         = "likes"
	Notifications = "notifications"
)

// Document is a schema-less document body.
type Document map[string]any

// Decode unmarshals the document into a typed struct via its bson tags.
func (d Document) Decode(v any) error {
	raw, err := bson.Marshal(bson.M(d))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

// String returns the named field as a string, or "" when absent or not a string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Snapshot is the result of a point read or a query row. A point read of a
// missing document yields Exists=false with no error.
type Snapshot struct {
	ID     string
	Exists bool
	Data   Document
}

// Filter is a field equality constraint.
type Filter struct {
	Field string
	Value any
}

// Store is the document-store contract shared by the HTTP handlers and the
// reaction engine.
type Store interface {
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	// Query returns documents matching all filters, ordered descending by
	// orderBy when it is non-empty.
	Query(ctx context.Context, collection string, filters []Filter, orderBy string) ([]Snapshot, error)
	// Add creates a document under a freshly generated id.
	Add(ctx context.Context, collection string, doc Document) (string, error)
	// Set creates or fully replaces the document at id.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update merges fields into the document at id.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes the document at id. Deleting a missing document is a no-op.
	Delete(ctx context.Context, collection, id string) error
	Batch() Batch
}

// Batch queues updates and deletes for a single atomic commit. Committing
// an empty batch is a no-op.
type Batch interface {
	Update(collection, id string, fields Document)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}
