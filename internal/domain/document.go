package domain

import (
	"encoding/json"
)

// DocumentKey is the string form under which documents live in the backing
// store. The service builds it by prefixing the user key with its collection
// name, which is how logically distinct collections stay apart inside one
// physical store.
type DocumentKey string

// Document represents one stored JSON value within a collection
type Document struct {
	Collection string          `json:"collection"`
	Key        string          `json:"key"`
	Value      json.RawMessage `json:"value"`
}

// PutDocumentRequest represents the request payload for storing a document
type PutDocumentRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// PutDocumentResponse represents the response after storing a document.
// Previous carries the value the key held before this write, absent on a
// fresh key.
type PutDocumentResponse struct {
	Collection string           `json:"collection"`
	Key        string           `json:"key"`
	Created    bool             `json:"created"`
	Previous   *json.RawMessage `json:"previous,omitempty"`
}

// DeleteDocumentResponse represents the response after deleting a document
type DeleteDocumentResponse struct {
	Collection string           `json:"collection"`
	Key        string           `json:"key"`
	Deleted    bool             `json:"deleted"`
	Previous   *json.RawMessage `json:"previous,omitempty"`
}

// ExistsResponse reports whether a document is present
type ExistsResponse struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	Exists     bool   `json:"exists"`
}

// TTLResponse reports the remaining lifetime of a document in whole seconds.
// Negative values are the store's own sentinels (-1 no expiry, -2 no key)
// passed through unchanged.
type TTLResponse struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Backend string `json:"backend"`
	Version string `json:"version"`
}
