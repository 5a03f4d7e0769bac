//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "validation error",
			err:      ErrValidation,
			wantCode: ExitValidationError,
		},
		{
			name:     "wrapped validation error",
			err:      Wrap(ErrValidation, "binding failed"),
			wantCode: ExitValidationError,
		},
		{
			name:     "schema error",
			err:      NewSchemaError("properties.name.type", "bad kind"),
			wantCode: ExitValidationError,
		},
		{
			name:     "file operation error",
			err:      NewFileOperationError("rename", "/a", fs.ErrExist),
			wantCode: ExitFileError,
		},
		{
			name:     "denied write is a permission error",
			err:      NewFileOperationError("write", "/a", &fs.PathError{Op: "open", Path: "/a", Err: fs.ErrPermission}),
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "permission error",
			err:      ErrPermission,
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("unknown schematic", "", ""),
			wantCode: ExitNotFound,
		},
		{
			name:     "unknown property",
			err:      fmt.Errorf("rewrite: %w", &UnknownPropertyError{Property: "x", Token: "__x__"}),
			wantCode: ExitUnknownProperty,
		},
		{
			name:     "explicit exit error",
			err:      &ExitError{Err: ErrNotFound, Code: ExitGeneralError},
			wantCode: ExitGeneralError,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("unknown error"),
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Unknown Property", ExitCodeName(ExitUnknownProperty))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}

func TestNewExitError(t *testing.T) {
	err := NewExitError(ErrNotFound)
	assert.Equal(t, ExitNotFound, err.Code)
	assert.True(t, errors.Is(err, ErrNotFound))
}
