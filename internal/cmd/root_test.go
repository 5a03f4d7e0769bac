package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphworks/schematic/internal/testutil"
)

// isolate clears the environment the loader reads and points HOME at an
// empty directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"SCHEMATIC_CONFIG",
		"SCHEMATIC_SOURCE_ROOT",
		"SCHEMATIC_SCHEMATICS_DIR",
		"SCHEMATIC_FORCE",
		"SCHEMATIC_LOG_TIMESTAMPS",
	} {
		t.Setenv(env, "")
	}
	t.Setenv("HOME", t.TempDir())
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "schematic", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	pf := root.PersistentFlags()
	for _, name := range []string{"config", "source-root", "verbose", "timestamps"} {
		assert.NotNil(t, pf.Lookup(name), "missing persistent flag %q", name)
	}
	assert.Equal(t, "v", pf.Lookup("verbose").Shorthand)
	assert.Equal(t, "true", pf.Lookup("timestamps").DefValue)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"generate", "list", "schema", "version"}, names)
}

func TestRoot_GenerateAlias(t *testing.T) {
	root := NewRootCmd()
	c, _, err := root.Find([]string{"g"})
	require.NoError(t, err)
	assert.Equal(t, "generate", c.Name())
}

func TestRoot_VersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schematic version")
	assert.Contains(t, out, "CUE SDK")
}

func TestRoot_InvalidConfigFails(t *testing.T) {
	isolate(t)
	cfgFile := testutil.WriteFile(t, t.TempDir(), "config.yaml", "sourceRoot: \"   \"\n")

	_, err := execute(t, "", "--config", cfgFile, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sourceRoot")
}
