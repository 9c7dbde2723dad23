package couchbase

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchbase/gocb/v2"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentManager handles document CRUD operations on the default
// collection.
type DocumentManager struct {
	bucket *gocb.Bucket
}

// NewDocumentManager creates a new document manager
func NewDocumentManager(bucket *gocb.Bucket) *DocumentManager {
	return &DocumentManager{bucket: bucket}
}

// UpsertDocument stores or replaces a document
func (dm *DocumentManager) UpsertDocument(ctx context.Context, docID string, data any) error {
	col := dm.bucket.DefaultCollection()

	if _, err := col.Upsert(docID, data, &gocb.UpsertOptions{Context: ctx}); err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", docID, err)
	}
	return nil
}

// GetDocument decodes a document into result. A missing document returns
// ErrNotFound.
func (dm *DocumentManager) GetDocument(ctx context.Context, docID string, result any) error {
	col := dm.bucket.DefaultCollection()

	doc, err := col.Get(docID, &gocb.GetOptions{Context: ctx})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return fmt.Errorf("%s: %w", docID, ErrNotFound)
		}
		return fmt.Errorf("failed to get document %s: %w", docID, err)
	}

	if err := doc.Content(result); err != nil {
		return fmt.Errorf("failed to parse document %s: %w", docID, err)
	}
	return nil
}

// DeleteDocument removes a document. Removing a missing document is not an
// error.
func (dm *DocumentManager) DeleteDocument(ctx context.Context, docID string) error {
	col := dm.bucket.DefaultCollection()

	_, err := col.Remove(docID, &gocb.RemoveOptions{Context: ctx})
	if err != nil && !errors.Is(err, gocb.ErrDocumentNotFound) {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	return nil
}
