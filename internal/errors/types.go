package errors

import (
	"errors"
	"fmt"
)

// UnknownPropertyError is returned when a placeholder token names a property
// that has no bound value.
type UnknownPropertyError struct {
	// Property is the name looked up.
	Property string

	// Token is the full token text as it appeared in the template.
	Token string
}

// Error implements the error interface.
func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q in token %s", e.Property, e.Token)
}

// Is reports whether target is ErrUnknownProperty.
func (e *UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}

// FileOperationError is returned when copying, renaming, reading, writing or
// deleting a file fails.
type FileOperationError struct {
	// Op is the operation name (copy, rename, read, write, delete, mkdir, stat).
	Op string

	// Path is the file the operation was applied to.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface.
func (e *FileOperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *FileOperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFileOperation.
func (e *FileOperationError) Is(target error) bool {
	return target == ErrFileOperation
}

// NewFileOperationError creates a FileOperationError.
func NewFileOperationError(op, path string, err error) error {
	return &FileOperationError{Op: op, Path: path, Err: err}
}

// SchemaError is returned when a schema is malformed. It is raised when the
// schema is loaded, never halfway through generation.
type SchemaError struct {
	// Schematic is the schematic type or schema file the error belongs to.
	Schematic string

	// Field is the offending field path, e.g. "properties.name.type".
	Field string

	// Reason describes what is wrong.
	Reason string

	// Cause is an optional underlying error.
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	msg := "invalid schema"
	if e.Schematic != "" {
		msg += " " + e.Schematic
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a SchemaError without a schematic name.
func NewSchemaError(field, reason string) error {
	return &SchemaError{Field: field, Reason: reason}
}

// WithSchematic returns err with the schematic name filled in when err is a
// SchemaError that does not name one yet. Other errors are returned unchanged.
func WithSchematic(err error, schematic string) error {
	var se *SchemaError
	if errors.As(err, &se) && se.Schematic == "" {
		cp := *se
		cp.Schematic = schematic
		return &cp
	}
	return err
}
