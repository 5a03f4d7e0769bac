package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

func bindSchema(t *testing.T) *Schema {
	t.Helper()
	s := New("service")
	for _, p := range []Property{
		{Name: "name", Kind: KindString, Pattern: `^[A-Za-z][\w-]*$`, Default: Positional(0), Prompt: "Service name?"},
		{Name: "path", Kind: KindString, Default: Positional(1)},
		{Name: "transport", Kind: KindEnum, Enum: []string{"rest", "graphql"}, Default: Literal("rest")},
		{Name: "generate-crud", Kind: KindBoolean, Default: Literal(true)},
		{Name: "port", Kind: KindInteger},
		{Name: "ratio", Kind: KindFloat},
		{Name: "tags", Kind: KindArray},
		{Name: "note", Kind: KindString, Prompt: "Anything else?"},
	} {
		require.NoError(t, s.Add(p))
	}
	return s
}

func TestBind_Precedence(t *testing.T) {
	s := bindSchema(t)

	b := &Binder{}
	ctx, err := b.Bind(s, map[string]string{"transport": "graphql"}, []string{"users"})
	require.NoError(t, err)

	name, ok := ctx.Lookup("name")
	assert.True(t, ok)
	assert.Equal(t, "users", name, "positional default")

	_, ok = ctx.Lookup("path")
	assert.False(t, ok, "missing positional token leaves property unbound")

	transport, _ := ctx.Lookup("transport")
	assert.Equal(t, "graphql", transport, "provided value beats literal default")

	crud, _ := ctx.Value("generate-crud")
	assert.Equal(t, true, crud)

	_, ok = ctx.Lookup("note")
	assert.False(t, ok, "no prompter configured")

	assert.Equal(t, []string{"users"}, ctx.Positional())
}

func TestBind_Prompts(t *testing.T) {
	s := bindSchema(t)

	var asked []string
	b := &Binder{Prompter: PrompterFunc(func(p Property) (string, error) {
		asked = append(asked, p.Name)
		return "  typed  ", nil
	})}

	ctx, err := b.Bind(s, nil, nil)
	require.NoError(t, err)

	// Only properties with prompt text and no resolvable value are asked.
	assert.Equal(t, []string{"name", "note"}, asked)
	name, _ := ctx.Lookup("name")
	assert.Equal(t, "typed", name)
}

func TestBind_PromptError(t *testing.T) {
	s := bindSchema(t)
	boom := errors.New("stdin closed")
	b := &Binder{Prompter: PrompterFunc(func(Property) (string, error) { return "", boom })}

	_, err := b.Bind(s, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestBind_Coercion(t *testing.T) {
	s := bindSchema(t)
	ctx, err := (&Binder{}).Bind(s, map[string]string{
		"name":          "users",
		"port":          "8080",
		"ratio":         "0.5",
		"tags":          "a, b,,c",
		"generate-crud": "false",
	}, nil)
	require.NoError(t, err)

	port, _ := ctx.Value("port")
	assert.Equal(t, 8080, port)
	ratio, _ := ctx.Value("ratio")
	assert.Equal(t, 0.5, ratio)
	tags, _ := ctx.Value("tags")
	assert.Equal(t, []string{"a", "b", "c"}, tags)
	crud, _ := ctx.Lookup("generate-crud")
	assert.Equal(t, "false", crud)
	text, _ := ctx.Lookup("tags")
	assert.Equal(t, "a,b,c", text)
}

func TestBind_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		provided  map[string]string
		wantField string
	}{
		{name: "pattern mismatch", provided: map[string]string{"name": "9lives"}, wantField: "name"},
		{name: "enum mismatch", provided: map[string]string{"name": "users", "transport": "soap"}, wantField: "transport"},
		{name: "bad integer", provided: map[string]string{"name": "users", "port": "eighty"}, wantField: "port"},
		{name: "bad boolean", provided: map[string]string{"name": "users", "generate-crud": "maybe"}, wantField: "generate-crud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Binder{}).Bind(bindSchema(t), tt.provided, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))

			var detail *oerrors.DetailError
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.wantField, detail.Field)
		})
	}
}

func TestBind_PassesThroughUndeclared(t *testing.T) {
	ctx, err := (&Binder{}).Bind(New(""), map[string]string{"singular": "user"}, nil)
	require.NoError(t, err)
	v, ok := ctx.Lookup("singular")
	assert.True(t, ok)
	assert.Equal(t, "user", v)
}
