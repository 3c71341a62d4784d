package storage

import (
	"errors"
	"fmt"
)

// Kind sentinels for the closed set of storage failures.
// Use errors.Is against these to branch on the failure kind.
var (
	// ErrConnection means a live connection to the store could not be
	// constructed or obtained
	ErrConnection = errors.New("storage connection error")

	// ErrQuery means the store rejected or failed to execute a command
	ErrQuery = errors.New("storage query error")

	// ErrSerialize means a caller-supplied value could not be encoded;
	// the write never reached the store
	ErrSerialize = errors.New("storage serialize error")

	// ErrDeserialize means a stored string could not be decoded into the
	// requested type; the stored data is left untouched
	ErrDeserialize = errors.New("storage deserialize error")
)

// Error is the single error type returned by storage backends. It carries a
// kind, a human-readable detail string, and - for codec failures - the
// offending key. Underlying client errors are flattened to strings so the
// store client's own error types never leak into this contract.
type Error struct {
	kind   error
	Key    string // set for serialize/deserialize failures
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.kind {
	case ErrSerialize:
		return fmt.Sprintf("unable to serialize value for key %q: %s", e.Key, e.Detail)
	case ErrDeserialize:
		return fmt.Sprintf("unable to deserialize value for key %q: %s", e.Key, e.Detail)
	case ErrQuery:
		return fmt.Sprintf("query error: %s", e.Detail)
	default:
		return fmt.Sprintf("connection error: %s", e.Detail)
	}
}

// Is matches the error against its kind sentinel for errors.Is
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// NewConnectionError reports that no live connection could be obtained
func NewConnectionError(detail string) *Error {
	return &Error{kind: ErrConnection, Detail: detail}
}

// NewQueryError reports a store-side command failure
func NewQueryError(detail string) *Error {
	return &Error{kind: ErrQuery, Detail: detail}
}

// NewSerializeError reports that the value for key could not be encoded
func NewSerializeError(key, detail string) *Error {
	return &Error{kind: ErrSerialize, Key: key, Detail: detail}
}

// NewDeserializeError reports that the stored data for key could not be
// decoded into the requested type
func NewDeserializeError(key, detail string) *Error {
	return &Error{kind: ErrDeserialize, Key: key, Detail: detail}
}
