// Package resolve substitutes placeholder tokens in template paths and file
// contents with values bound in a resolution context.
package resolve

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Context holds the property values bound for a single generation run.
// It is immutable once built.
type Context struct {
	values     map[string]string
	raw        map[string]any
	positional []string
}

// NewContext builds a Context from bound values and the raw positional
// invocation tokens. Values are stringified once here: slices are joined with
// commas, everything else goes through cast.ToStringE.
func NewContext(values map[string]any, positional []string) *Context {
	c := &Context{
		values:     make(map[string]string, len(values)),
		raw:        maps.Clone(values),
		positional: slices.Clone(positional),
	}
	if c.raw == nil {
		c.raw = map[string]any{}
	}
	for k, v := range values {
		c.values[k] = stringify(v)
	}
	return c
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ",")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Lookup returns the textual value bound to name.
func (c *Context) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[name]
	return v, ok
}

// Value returns the typed value bound to name.
func (c *Context) Value(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.raw[name]
	return v, ok
}

// Names returns the bound property names, sorted.
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.values))
}

// Positional returns a copy of the raw invocation tokens.
func (c *Context) Positional() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.positional)
}
