// Package docstore provides the document persistence layer. Budgets, months
// and feedback are stored as JSON documents addressed by collection and key,
// with full-overwrite, partial-update and prefix-delete operations. Two
// backends implement the interface: a GORM-backed store for Postgres/SQLite
// and an in-memory store for tests and local development.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the application.
const (
	CollectionBudgets  = "budgets"
	CollectionMonths   = "months"
	CollectionFeedback = "feedback"
)

// ErrNotFound is returned by Update when the target document does not exist.
// Read reports a missing document through Doc.Exists instead.
var ErrNotFound = errors.New("document not found")

// Doc is a stored document. Owner holds the space-delimited ids of the users
// the document is listed under; Data is the raw JSON payload.
type Doc struct {
	Key    string
	Owner  string
	Exists bool
	Data   json.RawMessage
}

// Store is the document-store boundary. Missing documents are a normal
// outcome for Read (Exists=false); every other error is a persistence
// failure the caller surfaces as-is. Operations are attempt-once.
type Store interface {
	// Read fetches a single document. A missing document returns
	// Doc{Exists: false} and a nil error.
	Read(ctx context.Context, collection, key string) (Doc, error)

	// Set writes the full document, creating or overwriting it.
	Set(ctx context.Context, collection, key, owner string, data []byte) error

	// Update merges the given top-level fields into an existing document.
	// A nil field value deletes the field. Returns ErrNotFound when the
	// document does not exist.
	Update(ctx context.Context, collection, key string, fields map[string]any) error

	// Delete removes a document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, collection, key string) error

	// DeleteByPrefix removes every document in the collection whose key
	// starts with the given prefix.
	DeleteByPrefix(ctx context.Context, collection, keyPrefix string) error

	// List returns the documents in a collection owned by the given member,
	// ordered by key, plus the total count before paging. An empty member
	// matches every document in the collection.
	List(ctx context.Context, collection, member string, limit, offset int) ([]Doc, int64, error)
}

// mergeFields applies a partial update to a raw JSON document. Numbers are
// decoded as json.Number so untouched fields round-trip without losing
// precision.
func mergeFields(data []byte, fields map[string]any) ([]byte, error) {
	doc := make(map[string]any)
	if len(data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	for field, value := range fields {
		if value == nil {
			delete(doc, field)
			continue
		}
		doc[field] = value
	}
	return json.Marshal(doc)
}
