package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kvstore/internal/config"
	"kvstore/internal/domain"
	"kvstore/internal/keygen"
	"kvstore/internal/storage"
	"kvstore/pkg/logger"
	"kvstore/pkg/validator"
)

// maxKeyGenerationAttempts bounds the retry loop for server-assigned keys
const maxKeyGenerationAttempts = 5

// DocumentStore is the storage capability the service consumes: typed keys,
// raw JSON values.
type DocumentStore = storage.Store[domain.DocumentKey, json.RawMessage]

// documentService implements the DocumentService interface
type documentService struct {
	store     DocumentStore
	cfg       *config.Config
	logger    *logger.Logger
	generator *keygen.Generator
}

// NewDocumentService creates a new document service with dependencies injected
func NewDocumentService(
	store DocumentStore,
	cfg *config.Config,
	logger *logger.Logger,
) DocumentService {
	return &documentService{
		store:     store,
		cfg:       cfg,
		logger:    logger,
		generator: keygen.NewGenerator(cfg.DocumentKeyLength),
	}
}

// documentKey prefixes the user key with its collection name. The storage
// layer does not namespace keys itself, so this prefix is what keeps
// collections apart inside one physical store.
func documentKey(collection, key string) domain.DocumentKey {
	return domain.DocumentKey(collection + ":" + key)
}

// Put stores a document and reports the value the key held before
func (s *documentService) Put(ctx context.Context, collection, key string, value json.RawMessage) (*domain.PutDocumentResponse, error) {
	if err := s.validateTarget(collection, key); err != nil {
		return nil, err
	}
	if !json.Valid(value) {
		return nil, domain.NewValidationError(domain.ErrInvalidValue, "Value must be valid JSON")
	}

	previous, err := s.store.Insert(ctx, documentKey(collection, key), value)
	if err != nil {
		s.logger.Error("Failed to store document", "collection", collection, "key", key, "error", err)
		return nil, s.mapStorageError(err)
	}

	s.logger.Info("Document stored",
		"collection", collection,
		"key", key,
		"created", previous == nil,
	)

	return &domain.PutDocumentResponse{
		Collection: collection,
		Key:        key,
		Created:    previous == nil,
		Previous:   previous,
	}, nil
}

// Create stores a document under a freshly generated key, retrying on the
// unlikely collision
func (s *documentService) Create(ctx context.Context, collection string, value json.RawMessage) (*domain.PutDocumentResponse, error) {
	if err := validator.ValidateCollection(collection); err != nil {
		return nil, domain.NewValidationError(domain.ErrInvalidCollection, err.Error())
	}
	if !json.Valid(value) {
		return nil, domain.NewValidationError(domain.ErrInvalidValue, "Value must be valid JSON")
	}

	for attempt := 0; attempt < maxKeyGenerationAttempts; attempt++ {
		key := s.generator.Generate()

		taken, err := s.store.Exists(ctx, documentKey(collection, key))
		if err != nil {
			s.logger.Error("Failed to check key existence", "collection", collection, "error", err)
			return nil, s.mapStorageError(err)
		}
		if taken {
			continue
		}

		return s.Put(ctx, collection, key, value)
	}

	s.logger.Error("Exhausted key generation attempts", "collection", collection)
	return nil, domain.NewInternalError(domain.ErrKeyGenerationFailed)
}

// Get retrieves a document, returning a not-found error for absent keys
func (s *documentService) Get(ctx context.Context, collection, key string) (*domain.Document, error) {
	if err := s.validateTarget(collection, key); err != nil {
		return nil, err
	}

	value, err := s.store.Get(ctx, documentKey(collection, key))
	if err != nil {
		s.logger.Error("Failed to read document", "collection", collection, "key", key, "error", err)
		return nil, s.mapStorageError(err)
	}
	if value == nil {
		return nil, domain.NewNotFoundError("Document")
	}

	return &domain.Document{
		Collection: collection,
		Key:        key,
		Value:      *value,
	}, nil
}

// Delete removes a document and reports the value it held.
// Deleting an absent document is not an error.
func (s *documentService) Delete(ctx context.Context, collection, key string) (*domain.DeleteDocumentResponse, error) {
	if err := s.validateTarget(collection, key); err != nil {
		return nil, err
	}

	previous, err := s.store.Remove(ctx, documentKey(collection, key))
	if err != nil {
		s.logger.Error("Failed to delete document", "collection", collection, "key", key, "error", err)
		return nil, s.mapStorageError(err)
	}

	s.logger.Info("Document deleted",
		"collection", collection,
		"key", key,
		"existed", previous != nil,
	)

	return &domain.DeleteDocumentResponse{
		Collection: collection,
		Key:        key,
		Deleted:    previous != nil,
		Previous:   previous,
	}, nil
}

// Exists reports document presence without fetching the value
func (s *documentService) Exists(ctx context.Context, collection, key string) (bool, error) {
	if err := s.validateTarget(collection, key); err != nil {
		return false, err
	}

	exists, err := s.store.Exists(ctx, documentKey(collection, key))
	if err != nil {
		s.logger.Error("Failed to check document existence", "collection", collection, "key", key, "error", err)
		return false, s.mapStorageError(err)
	}
	return exists, nil
}

// TTL reports the remaining lifetime of a document. The store's sentinels
// for a missing or non-expiring key pass through as negative durations.
func (s *documentService) TTL(ctx context.Context, collection, key string) (time.Duration, error) {
	if err := s.validateTarget(collection, key); err != nil {
		return 0, err
	}

	ttl, err := s.store.TTL(ctx, documentKey(collection, key))
	if err != nil {
		s.logger.Error("Failed to query document TTL", "collection", collection, "key", key, "error", err)
		return 0, s.mapStorageError(err)
	}
	return ttl, nil
}

// validateTarget checks collection and key names before touching the store
func (s *documentService) validateTarget(collection, key string) error {
	if err := validator.ValidateCollection(collection); err != nil {
		return domain.NewValidationError(domain.ErrInvalidCollection, err.Error())
	}
	if err := validator.ValidateKey(key); err != nil {
		return domain.NewValidationError(domain.ErrInvalidKey, err.Error())
	}
	return nil
}

// mapStorageError translates the storage taxonomy into domain errors.
// Connection failures surface as service unavailability; everything else is
// internal.
func (s *documentService) mapStorageError(err error) error {
	if errors.Is(err, storage.ErrConnection) {
		return domain.NewUnavailableError(err)
	}
	return domain.NewInternalError(err)
}
