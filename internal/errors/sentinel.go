package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a bound value or config field failed validation.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a schematic, template tree, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrSchema indicates a malformed schematic schema.
	ErrSchema = errors.New("schema error")

	// ErrUnknownProperty indicates a placeholder token named a property
	// that is not bound in the resolution context.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrFileOperation indicates a filesystem operation failed during generation.
	ErrFileOperation = errors.New("file operation failed")
)
