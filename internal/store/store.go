package store

import (
	"context"
	"errors"
)

// IDField is the logical identifier carried inside every document. Principals
// authenticate as this value; it is never the storage-internal key.
const IDField = "id"

// ErrNotFound is returned when no document carries the requested logical id.
var ErrNotFound = errors.New("document not found")

// ErrDuplicateID is returned when an insert (or a patch renaming the id
// field) would give two documents in a collection the same logical id. Both
// backends enforce this so they stay interchangeable.
var ErrDuplicateID = errors.New("duplicate document id")

// Document is a flat catalog document with arbitrary attributes.
type Document map[string]any

// LogicalID returns the document's application-level identifier, if any.
func (d Document) LogicalID() string {
	id, _ := d[IDField].(string)
	return id
}

// DocumentStore is the uniform contract over a document collection. Two
// backends implement it; exactly one is selected at startup. Insert returns
// the storage-internal key, which callers must not confuse with the logical
// id used by FindByID, Update and Delete.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, patch Document) (bool, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
	Ping(ctx context.Context) error
}
