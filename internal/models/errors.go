package models

import "errors"

// Workflow error taxonomy. Storage and the settlement engine wrap these
// with context via fmt.Errorf("...: %w", err); the API surface maps them
// to stable error codes with errors.Is.
var (
	// ErrInvalidInput marks malformed or out-of-range input, such as a
	// non-positive amount or a missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced group, user, rule, penalty, proof
	// or payment that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks a caller lacking the required role or
	// not owning the resource.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConflict marks a transition that violates the current state:
	// a duplicate pending proof, a re-review of a terminal entity, or
	// the losing side of a concurrent review race. Never retried
	// automatically; callers re-fetch and decide.
	ErrConflict = errors.New("conflict")
)
