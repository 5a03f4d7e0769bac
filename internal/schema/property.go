// Package schema models schematic schemas: the properties a schematic
// accepts, how their values are defaulted, and how the generated artifact is
// registered in the enclosing module declaration.
package schema

// ValueKind is the type of value a property accepts.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindInteger ValueKind = "integer"
	KindFloat   ValueKind = "float"
	KindBoolean ValueKind = "boolean"
	KindEnum    ValueKind = "enum"
	KindArray   ValueKind = "array"
)

// DefaultSource describes where a property's default value comes from:
// either a literal value, or a positional token of the invocation.
type DefaultSource struct {
	literal    any
	index      int
	positional bool
}

// Literal returns a default that always yields v.
func Literal(v any) *DefaultSource {
	return &DefaultSource{literal: v}
}

// Positional returns a default that yields the positional invocation token
// at index, when present.
func Positional(index int) *DefaultSource {
	return &DefaultSource{index: index, positional: true}
}

// IsPositional reports whether the default reads a positional token.
func (d *DefaultSource) IsPositional() bool {
	return d.positional
}

// Index is the positional token index. Only meaningful when IsPositional.
func (d *DefaultSource) Index() int {
	return d.index
}

// Value returns the literal value. Only meaningful when !IsPositional.
func (d *DefaultSource) Value() any {
	return d.literal
}

// Resolve returns the default value for the given positional tokens. The
// second result is false when a positional default has no matching token.
func (d *DefaultSource) Resolve(positional []string) (any, bool) {
	if !d.positional {
		return d.literal, true
	}
	if d.index < 0 || d.index >= len(positional) {
		return nil, false
	}
	return positional[d.index], true
}

// Property is a named input to a schematic.
type Property struct {
	Name        string    `validate:"required,propname"`
	Description string
	Kind        ValueKind `validate:"required,oneof=string integer float boolean enum array"`

	// Pattern is an optional regular expression the textual value must match.
	Pattern string

	// Enum lists the accepted values when Kind is KindEnum.
	Enum []string `validate:"required_if=Kind enum,dive,required"`

	Default *DefaultSource

	// Prompt is shown when the value is missing and has no default.
	Prompt string
}
