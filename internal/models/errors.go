package models

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Every failure is local to the request that caused
// it; nothing is retried by the service itself. Handlers map these to HTTP
// status codes with errors.Is / errors.As.
var (
	// ErrInvalidJSON marks a batch payload that is not well-formed JSON at
	// all, as opposed to valid JSON missing a required field.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrStorageFailure covers database unavailability or a rejected batch
	// write. The batch transaction rolls back, so no partial commit exists.
	ErrStorageFailure = errors.New("storage failure")

	// ErrObjectNotFound is returned when a requested object-store key is
	// absent from the source store.
	ErrObjectNotFound = errors.New("object not found")

	// ErrDestinationWrite is returned when the destination store rejects a
	// write after the source read already succeeded. The destination object
	// is untouched in that case.
	ErrDestinationWrite = errors.New("destination write failed")
)

// SchemaViolationError reports a malformed batch document: a required field
// is missing. Path names the offending location, e.g.
// "branches[0].policies[2].customer_info.name".
type SchemaViolationError struct {
	Path string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation: missing required field %q", e.Path)
}
