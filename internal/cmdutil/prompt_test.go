package cmdutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphworks/schematic/internal/schema"
)

func TestLinePrompter_Prompt(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("users\n  graphql  \n"), &out)

	name, err := p.Prompt(schema.Property{Name: "name", Kind: schema.KindString, Prompt: "What name would you like to use?"})
	require.NoError(t, err)
	assert.Equal(t, "users", name)

	transport, err := p.Prompt(schema.Property{
		Name:   "transport",
		Kind:   schema.KindEnum,
		Enum:   []string{"rest", "graphql"},
		Prompt: "What transport layer do you use?",
	})
	require.NoError(t, err)
	assert.Equal(t, "graphql", transport)

	assert.Contains(t, out.String(), "What name would you like to use?")
	assert.Contains(t, out.String(), "rest/graphql")
}

func TestLinePrompter_EOF(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader(""), &out)

	answer, err := p.Prompt(schema.Property{Name: "name", Kind: schema.KindString})
	require.NoError(t, err)
	assert.Empty(t, answer)
	assert.Contains(t, out.String(), "Value for name?")
}

func TestLinePrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("orders"), &bytes.Buffer{})

	answer, err := p.Prompt(schema.Property{Name: "name", Kind: schema.KindString})
	require.NoError(t, err)
	assert.Equal(t, "orders", answer)
}

func TestLinePrompter_WithBinder(t *testing.T) {
	s := schema.New("test")
	require.NoError(t, s.Add(schema.Property{Name: "name", Kind: schema.KindString, Prompt: "Name?"}))
	require.NoError(t, s.Add(schema.Property{Name: "namespace", Kind: schema.KindString, Default: schema.Literal("App")}))

	binder := schema.Binder{Prompter: NewLinePrompter(strings.NewReader("widget\n"), &bytes.Buffer{})}
	ctx, err := binder.Bind(s, map[string]string{}, nil)
	require.NoError(t, err)

	name, ok := ctx.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "widget", name)
}
