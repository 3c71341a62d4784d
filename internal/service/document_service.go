package service

import (
	"context"
	"encoding/json"
	"time"

	"kvstore/internal/domain"
)

// DocumentService defines the business logic interface for document
// operations. It layers collection namespacing, validation, and key
// generation over the typed storage contracts.
type DocumentService interface {
	// Put stores value under collection/key and reports the previous value
	Put(ctx context.Context, collection, key string, value json.RawMessage) (*domain.PutDocumentResponse, error)

	// Create stores value under a server-generated key within collection
	Create(ctx context.Context, collection string, value json.RawMessage) (*domain.PutDocumentResponse, error)

	// Get retrieves the document stored under collection/key
	Get(ctx context.Context, collection, key string) (*domain.Document, error)

	// Delete removes the document stored under collection/key and reports
	// the value it held
	Delete(ctx context.Context, collection, key string) (*domain.DeleteDocumentResponse, error)

	// Exists reports whether a document is stored under collection/key
	Exists(ctx context.Context, collection, key string) (bool, error)

	// TTL reports the remaining lifetime of the document under collection/key
	TTL(ctx context.Context, collection, key string) (time.Duration, error)
}
