package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

//go:embed schematic.cue
var schematicCUE []byte

// cueSchema holds the compiled #Schematic definition. cue.Context is not safe
// for concurrent use, so every use goes through mu.
var cueSchema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

func schematicDefinition() (*cue.Context, cue.Value, error) {
	cueSchema.once.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileBytes(schematicCUE, cue.Filename("schematic.cue"))
		if v.Err() != nil {
			cueSchema.err = fmt.Errorf("compiling schematic definition: %w", v.Err())
			return
		}
		cueSchema.ctx = ctx
		cueSchema.def = v.LookupPath(cue.ParsePath("#Schematic"))
	})
	return cueSchema.ctx, cueSchema.def, cueSchema.err
}

// Check validates raw schema.yaml content against the #Schematic definition.
func Check(data []byte, filename string) error {
	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return &oerrors.SchemaError{Schematic: filename, Reason: "not valid YAML", Cause: err}
	}

	ctx, def, err := schematicDefinition()
	if err != nil {
		return err
	}

	cueSchema.mu.Lock()
	defer cueSchema.mu.Unlock()

	v := ctx.CompileBytes(jsonData, cue.Filename(filename))
	if v.Err() != nil {
		return &oerrors.SchemaError{Schematic: filename, Reason: "not valid YAML", Cause: v.Err()}
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return cueSchemaError(filename, err)
	}
	return nil
}

// cueSchemaError turns the first CUE error into a SchemaError naming the
// offending field.
func cueSchemaError(filename string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &oerrors.SchemaError{Schematic: filename, Reason: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	reason := fmt.Sprintf(format, args...)
	if len(errs) > 1 {
		reason += fmt.Sprintf(" (and %d more)", len(errs)-1)
	}
	return &oerrors.SchemaError{
		Schematic: filename,
		Field:     strings.Join(first.Path(), "."),
		Reason:    reason,
	}
}

type schemaFile struct {
	Description string      `yaml:"description"`
	Properties  yaml.Node   `yaml:"properties"`
	Update      *updateFile `yaml:"update"`
}

type propertyFile struct {
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	Pattern     string    `yaml:"pattern"`
	Enum        []string  `yaml:"enum"`
	Default     yaml.Node `yaml:"default"`
	Prompt      string    `yaml:"prompt"`
}

type positionalFile struct {
	Source string `yaml:"source"`
	Index  int    `yaml:"index"`
}

type updateFile struct {
	Path        string   `yaml:"path"`
	Marker      string   `yaml:"marker"`
	Imports     []string `yaml:"imports"`
	Exports     []string `yaml:"exports"`
	Providers   []string `yaml:"providers"`
	Controllers []string `yaml:"controllers"`
	Use         []string `yaml:"use"`
}

// Parse checks data against the #Schematic definition and builds a Schema.
// Properties keep the order they are declared in. The result has been
// validated with Schema.Validate.
func Parse(data []byte, filename string) (*Schema, error) {
	if err := Check(data, filename); err != nil {
		return nil, err
	}

	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &oerrors.SchemaError{Schematic: filename, Reason: "decoding schema", Cause: err}
	}

	s := New(f.Description)

	if f.Properties.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(f.Properties.Content); i += 2 {
			name := f.Properties.Content[i].Value
			var pf propertyFile
			if err := f.Properties.Content[i+1].Decode(&pf); err != nil {
				return nil, &oerrors.SchemaError{Schematic: filename, Field: "properties." + name, Reason: "decoding property", Cause: err}
			}
			def, err := decodeDefault(&pf.Default)
			if err != nil {
				return nil, &oerrors.SchemaError{Schematic: filename, Field: "properties." + name + ".default", Reason: "decoding default", Cause: err}
			}
			p := Property{
				Name:        name,
				Description: pf.Description,
				Kind:        ValueKind(pf.Type),
				Pattern:     pf.Pattern,
				Enum:        pf.Enum,
				Default:     def,
				Prompt:      pf.Prompt,
			}
			if err := s.Add(p); err != nil {
				return nil, oerrors.WithSchematic(err, filename)
			}
		}
	}

	if f.Update != nil {
		s.Update = &UpdateInstructions{
			Path:     f.Update.Path,
			Marker:   f.Update.Marker,
			Use:      f.Update.Use,
			Sections: map[Section][]string{},
		}
		for sec, entries := range map[Section][]string{
			SectionImports:     f.Update.Imports,
			SectionExports:     f.Update.Exports,
			SectionProviders:   f.Update.Providers,
			SectionControllers: f.Update.Controllers,
		} {
			if len(entries) > 0 {
				s.Update.Sections[sec] = entries
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, oerrors.WithSchematic(err, filename)
	}
	return s, nil
}

func decodeDefault(n *yaml.Node) (*DefaultSource, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		var pos positionalFile
		if err := n.Decode(&pos); err != nil {
			return nil, err
		}
		return Positional(pos.Index), nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return Literal(v), nil
	}
}
