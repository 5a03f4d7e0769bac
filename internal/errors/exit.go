package errors

import (
	"errors"
	"io/fs"
)

// Exit codes returned by the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates a schema or bound value failed validation.
	ExitValidationError = 2

	// ExitFileError indicates a file could not be copied, renamed, read or written.
	ExitFileError = 3

	// ExitPermissionDenied indicates insufficient filesystem permissions.
	ExitPermissionDenied = 4

	// ExitNotFound indicates a schematic, template tree or file was not found.
	ExitNotFound = 5

	// ExitUnknownProperty indicates a template referenced an unbound property.
	ExitUnknownProperty = 6
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitFileError:
		return "File Error"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitNotFound:
		return "Not Found"
	case ExitUnknownProperty:
		return "Unknown Property"
	default:
		return "Unknown"
	}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for ExitError first
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Permission is checked before file operations: a denied write is both.
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSchema):
		return ExitValidationError
	case errors.Is(err, ErrPermission), errors.Is(err, fs.ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, ErrFileOperation):
		return ExitFileError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrUnknownProperty):
		return ExitUnknownProperty
	default:
		return ExitGeneralError
	}
}

// NewExitError wraps err with the exit code derived from it.
func NewExitError(err error) *ExitError {
	return &ExitError{Err: err, Code: ExitCodeFromError(err)}
}
