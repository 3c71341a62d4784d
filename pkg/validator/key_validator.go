package validator

import (
	"regexp"
	"strings"
)

var (
	// collectionRegex validates collection names (lowercase alphanumeric, hyphens, underscores)
	collectionRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

	// keyRegex validates document keys (alphanumeric, hyphens, underscores, dots)
	keyRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ValidateCollection checks if a string is a usable collection name.
// Collection names become key prefixes in the backing store, so the colon
// separator is excluded from the charset.
func ValidateCollection(name string) error {
	if name == "" {
		return &ValidationError{Field: "collection", Message: "Collection name cannot be empty"}
	}

	if len(name) > 64 {
		return &ValidationError{Field: "collection", Message: "Collection name too long (max 64 characters)"}
	}

	if !collectionRegex.MatchString(name) {
		return &ValidationError{Field: "collection", Message: "Collection name may only contain lowercase letters, digits, hyphens and underscores"}
	}

	return nil
}

// ValidateKey checks if a string is a usable document key
func ValidateKey(key string) error {
	if key == "" {
		return &ValidationError{Field: "key", Message: "Document key cannot be empty"}
	}

	if len(key) > 256 {
		return &ValidationError{Field: "key", Message: "Document key too long (max 256 characters)"}
	}

	if strings.Contains(key, ":") {
		return &ValidationError{Field: "key", Message: "Document key must not contain ':'"}
	}

	if !keyRegex.MatchString(key) {
		return &ValidationError{Field: "key", Message: "Document key may only contain letters, digits, hyphens, underscores and dots"}
	}

	return nil
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
