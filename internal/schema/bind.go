package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cast"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/resolve"
)

// Prompter asks the user for a property value. It is only called when a
// value is missing, has no resolvable default, and the property declares
// prompt text.
type Prompter interface {
	Prompt(p Property) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(Property) (string, error)

// Prompt calls f(p).
func (f PrompterFunc) Prompt(p Property) (string, error) {
	return f(p)
}

// Binder builds a resolution context from invocation values.
type Binder struct {
	// Prompter is optional. Without it missing values stay unbound.
	Prompter Prompter
}

// Bind resolves a value for every property of s, in declaration order:
// an explicitly provided value, then the default (literal, or positional
// token), then the prompter. Values are checked against the property's
// pattern and enum set and coerced to its kind. Provided values for names the
// schema does not declare are passed through as strings.
func (b *Binder) Bind(s *Schema, provided map[string]string, positional []string) (*resolve.Context, error) {
	values := make(map[string]any, len(provided))
	for name, v := range provided {
		if _, declared := s.Property(name); !declared {
			values[name] = v
		}
	}

	for _, p := range s.Properties() {
		raw, ok, err := b.lookup(p, provided, positional)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := coerce(p, raw)
		if err != nil {
			return nil, err
		}
		values[p.Name] = v
	}

	return resolve.NewContext(values, positional), nil
}

func (b *Binder) lookup(p Property, provided map[string]string, positional []string) (any, bool, error) {
	if v, ok := provided[p.Name]; ok {
		return v, true, nil
	}
	if p.Default != nil {
		if v, ok := p.Default.Resolve(positional); ok {
			return v, true, nil
		}
	}
	if p.Prompt == "" || b.Prompter == nil {
		return nil, false, nil
	}
	answer, err := b.Prompter.Prompt(p)
	if err != nil {
		return nil, false, fmt.Errorf("prompting for %s: %w", p.Name, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, false, nil
	}
	return answer, true, nil
}

// coerce checks raw against the property's constraints and converts it to
// the property's kind.
func coerce(p Property, raw any) (any, error) {
	text := cast.ToString(raw)
	if _, isSlice := raw.([]any); isSlice {
		text = strings.Join(cast.ToStringSlice(raw), ",")
	}

	if p.Pattern != "" {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, &oerrors.SchemaError{Field: "properties." + p.Name + ".pattern", Reason: "invalid regular expression", Cause: err}
		}
		if !re.MatchString(text) {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("value %q does not match pattern %s", text, p.Pattern),
				"", p.Name, p.Description)
		}
	}

	switch p.Kind {
	case KindInteger:
		v, err := cast.ToIntE(raw)
		if err != nil {
			return nil, invalidKind(p, text)
		}
		return v, nil
	case KindFloat:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, invalidKind(p, text)
		}
		return v, nil
	case KindBoolean:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, invalidKind(p, text)
		}
		return v, nil
	case KindEnum:
		if !slices.Contains(p.Enum, text) {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("value %q is not one of %s", text, strings.Join(p.Enum, ", ")),
				"", p.Name, "Pick one of: "+strings.Join(p.Enum, ", "))
		}
		return text, nil
	case KindArray:
		if s, ok := raw.(string); ok {
			return splitList(s), nil
		}
		v, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, invalidKind(p, text)
		}
		return v, nil
	default:
		return text, nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func invalidKind(p Property, text string) error {
	return oerrors.NewValidationError(
		fmt.Sprintf("value %q is not a valid %s", text, p.Kind),
		"", p.Name, p.Description)
}
