// Package schematics provides the schematic collection: the built-in
// schematics embedded in the binary plus any loaded from a user directory.
package schematics

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jinzhu/inflection"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/materialize"
	"github.com/glyphworks/schematic/internal/resolve"
	"github.com/glyphworks/schematic/internal/schema"
)

// Naming controls how generate normalizes the name and path of a schematic
// invocation before binding.
type Naming struct {
	// Prefix is prepended to the pascalized name, e.g. "I" for interfaces.
	Prefix string

	// PathFromName defaults the output path to the name when no path is given.
	PathFromName bool
}

// Definition is a registered schematic.
type Definition struct {
	// Type is the identifier used on the command line (service, module, ...).
	Type string

	// Description is a one-line summary shown by list.
	Description string

	Schema *schema.Schema
	Source materialize.Source
	Naming Naming

	// Builtin reports whether the schematic ships with the binary.
	Builtin bool
}

// Prepare normalizes invocation values: the name is pascalized (with the
// naming prefix), singular is derived from the name when absent, and path
// defaults to the name when the definition asks for it. The input map is not
// modified.
func (d Definition) Prepare(values map[string]string) map[string]string {
	out := maps.Clone(values)
	if out == nil {
		out = map[string]string{}
	}

	name := strings.TrimSpace(out["name"])
	if name == "" {
		return out
	}
	name = d.Naming.Prefix + resolve.Pascalize(name)
	out["name"] = name

	if _, ok := out["singular"]; !ok {
		out["singular"] = inflection.Singular(name)
	}
	if d.Naming.PathFromName && out["path"] == "" {
		out["path"] = name
	}
	return out
}

// OutputDir returns the directory generated files are written to: sourceRoot
// joined with every segment of path pascalized. Segments that pascalize to
// nothing, such as "." or "..", are dropped so the result never leaves
// sourceRoot.
func OutputDir(sourceRoot, path string) string {
	parts := []string{sourceRoot}
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if p := resolve.Pascalize(seg); p != "" {
			parts = append(parts, p)
		}
	}
	return filepath.Join(parts...)
}

// Registry is a set of schematics keyed by type.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]Definition{}}
}

// Register adds d, replacing any schematic of the same type.
func (r *Registry) Register(d Definition) error {
	if d.Type == "" {
		return oerrors.NewSchemaError("type", "schematic type must not be empty")
	}
	if d.Schema == nil {
		return &oerrors.SchemaError{Schematic: d.Type, Reason: "schematic has no schema"}
	}
	if d.Source == nil {
		return &oerrors.SchemaError{Schematic: d.Type, Reason: "schematic has no template tree"}
	}
	r.defs[d.Type] = d
	return nil
}

// Lookup returns the schematic registered for typ.
func (r *Registry) Lookup(typ string) (Definition, error) {
	d, ok := r.defs[typ]
	if !ok {
		return Definition{}, oerrors.NewNotFoundError(
			fmt.Sprintf("unknown schematic %q", typ),
			"",
			fmt.Sprintf("Available schematics: %s", strings.Join(r.Types(), ", ")),
		)
	}
	return d, nil
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.defs))
}

// List returns all definitions sorted by type.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, typ := range r.Types() {
		out = append(out, r.defs[typ])
	}
	return out
}
