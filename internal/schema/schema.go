package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

// Section names a metadata array in a module declaration.
type Section string

const (
	SectionImports     Section = "imports"
	SectionExports     Section = "exports"
	SectionProviders   Section = "providers"
	SectionControllers Section = "controllers"
)

// Sections returns the metadata sections in the order they are merged.
func Sections() []Section {
	return []Section{SectionImports, SectionExports, SectionProviders, SectionControllers}
}

// DefaultMarker is the text that opens a module declaration.
const DefaultMarker = "#[Module"

// UpdateInstructions describe how to register generated artifacts in an
// existing module declaration file.
type UpdateInstructions struct {
	// Path is a path template relative to the module root.
	Path string `validate:"required"`

	// Marker is the text that opens the module declaration. Namespace imports
	// are inserted above it. Defaults to DefaultMarker.
	Marker string

	// Sections maps a metadata section to the entry templates to add.
	Sections map[Section][]string

	// Use lists namespace templates to import.
	Use []string
}

// ModuleMarker returns the marker, falling back to DefaultMarker.
func (u *UpdateInstructions) ModuleMarker() string {
	if u.Marker == "" {
		return DefaultMarker
	}
	return u.Marker
}

// Entries returns the entry templates for sec.
func (u *UpdateInstructions) Entries(sec Section) []string {
	return u.Sections[sec]
}

// Schema is the declarative description of one schematic.
type Schema struct {
	Description string
	Update      *UpdateInstructions

	props []Property
	index map[string]int
}

// New creates an empty schema.
func New(description string) *Schema {
	return &Schema{
		Description: description,
		index:       map[string]int{},
	}
}

// Add appends p. Property names must be unique.
func (s *Schema) Add(p Property) error {
	if s.index == nil {
		s.index = map[string]int{}
	}
	if _, dup := s.index[p.Name]; dup {
		return oerrors.NewSchemaError("properties."+p.Name, "duplicate property")
	}
	s.index[p.Name] = len(s.props)
	s.props = append(s.props, p)
	return nil
}

// Properties returns the properties in declaration order.
func (s *Schema) Properties() []Property {
	return slices.Clone(s.props)
}

// Property returns the property called name.
func (s *Schema) Property(name string) (Property, bool) {
	i, ok := s.index[name]
	if !ok {
		return Property{}, false
	}
	return s.props[i], true
}

var propertyName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:[-_][A-Za-z0-9]+)*$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("propname", func(fl validator.FieldLevel) bool {
			return propertyName.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the schema's structure: property names and kinds, enum
// sets, pattern syntax and update instructions. It returns a SchemaError.
func (s *Schema) Validate() error {
	v := structValidator()

	for _, p := range s.props {
		field := "properties." + p.Name
		if err := v.Struct(p); err != nil {
			return &oerrors.SchemaError{Field: field, Reason: describeValidation(err)}
		}
		if p.Kind != KindEnum && len(p.Enum) > 0 {
			return oerrors.NewSchemaError(field+".enum", "enum values require type enum")
		}
		if p.Pattern != "" {
			if _, err := regexp.Compile(p.Pattern); err != nil {
				return &oerrors.SchemaError{Field: field + ".pattern", Reason: "invalid regular expression", Cause: err}
			}
		}
		if p.Default != nil && p.Default.IsPositional() && p.Default.Index() < 0 {
			return oerrors.NewSchemaError(field+".default.index", "must not be negative")
		}
	}

	if s.Update == nil {
		return nil
	}
	if err := v.Struct(s.Update); err != nil {
		return &oerrors.SchemaError{Field: "update", Reason: describeValidation(err)}
	}
	for sec := range s.Update.Sections {
		if !slices.Contains(Sections(), sec) {
			return oerrors.NewSchemaError("update."+string(sec), "unknown metadata section")
		}
	}
	if strings.TrimSpace(s.Update.ModuleMarker()) == "" {
		return oerrors.NewSchemaError("update.marker", "must not be blank")
	}
	return nil
}

// describeValidation flattens validator errors into one line.
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the concrete type
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), rule))
	}
	return strings.Join(parts, "; ")
}
