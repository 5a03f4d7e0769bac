package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("HOME", "/home/dev")

	cfg := DefaultConfig()
	assert.Equal(t, "src", cfg.SourceRoot)
	assert.Equal(t, "/home/dev/.schematic/schematics", cfg.SchematicsDir)
	assert.False(t, cfg.Force)
	assert.Nil(t, cfg.Log.Timestamps)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantFields []string
	}{
		{
			name: "valid",
			cfg:  Config{SourceRoot: "app/src"},
		},
		{
			name:       "missing source root",
			cfg:        Config{},
			wantFields: []string{"sourceRoot"},
		},
		{
			name:       "blank values",
			cfg:        Config{SourceRoot: "  ", SchematicsDir: "\t"},
			wantFields: []string{"sourceRoot", "schematicsDir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "sourceRoot", Message: "is required"}}
	assert.Equal(t, "config validation failed:\n  sourceRoot: is required\n", errs.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
