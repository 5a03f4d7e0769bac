package schematics

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/materialize"
	"github.com/glyphworks/schematic/internal/schema"
)

func TestBuiltin(t *testing.T) {
	r, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"class", "controller", "interface", "module", "resource", "service"}, r.Types())

	for _, d := range r.List() {
		assert.NotEmpty(t, d.Description, d.Type)
		assert.True(t, d.Builtin, d.Type)
		_, ok := d.Schema.Property("name")
		assert.True(t, ok, "%s declares a name property", d.Type)
	}

	svc, err := r.Lookup("service")
	require.NoError(t, err)
	require.NotNil(t, svc.Schema.Update)
	assert.Equal(t, "__name@pascalize__/__name@pascalize__Module.php", svc.Schema.Update.Path)
	assert.Equal(t, []string{"__name@pascalize__Service::class"}, svc.Schema.Update.Entries(schema.SectionProviders))

	iface, err := r.Lookup("interface")
	require.NoError(t, err)
	assert.Equal(t, "I", iface.Naming.Prefix)
	assert.Nil(t, iface.Schema.Update)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r, err := Builtin()
	require.NoError(t, err)

	_, err = r.Lookup("widget")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.Contains(t, err.Error(), `unknown schematic "widget"`)
	assert.Contains(t, err.Error(), "class, controller, interface")
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	s := schema.New("x")

	tests := []struct {
		name string
		def  Definition
	}{
		{"empty type", Definition{Schema: s, Source: materialize.DirSource("/t")}},
		{"missing schema", Definition{Type: "x", Source: materialize.DirSource("/t")}},
		{"missing source", Definition{Type: "x", Schema: s}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.def)
			assert.True(t, errors.Is(err, oerrors.ErrSchema))
		})
	}
	assert.Empty(t, r.Types())
}

func TestDefinition_Prepare(t *testing.T) {
	tests := []struct {
		name   string
		naming Naming
		in     map[string]string
		want   map[string]string
	}{
		{
			name:   "service derives singular and path",
			naming: Naming{PathFromName: true},
			in:     map[string]string{"name": "users"},
			want:   map[string]string{"name": "Users", "singular": "User", "path": "Users"},
		},
		{
			name:   "explicit path and singular are kept",
			naming: Naming{PathFromName: true},
			in:     map[string]string{"name": "people", "singular": "Person", "path": "admin/people"},
			want:   map[string]string{"name": "People", "singular": "Person", "path": "admin/people"},
		},
		{
			name:   "interface prefix",
			naming: Naming{Prefix: "I"},
			in:     map[string]string{"name": "user-repository"},
			want:   map[string]string{"name": "IUserRepository", "singular": "IUserRepository"},
		},
		{
			name: "missing name is left for binding",
			in:   map[string]string{"namespace": "Acme"},
			want: map[string]string{"namespace": "Acme"},
		},
		{
			name: "nil values",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Definition{Naming: tt.naming}
			assert.Equal(t, tt.want, d.Prepare(tt.in))
		})
	}
}

func TestDefinition_PrepareDoesNotMutateInput(t *testing.T) {
	in := map[string]string{"name": "users"}
	_ = Definition{Naming: Naming{PathFromName: true}}.Prepare(in)
	assert.Equal(t, map[string]string{"name": "users"}, in)
}

func TestOutputDir(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "src"},
		{"users", "src/Users"},
		{"admin/user-profiles", "src/Admin/UserProfiles"},
		{"/users/", "src/Users"},
		{`admin\users`, "src/Admin/Users"},
		{"../etc", "src/Etc"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputDir("src", tt.path))
		})
	}
}

func TestDefinition_Files(t *testing.T) {
	r, err := Builtin()
	require.NoError(t, err)
	d, err := r.Lookup("resource")
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	files, err := d.Files(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Dto/Create__singular@pascalize__Dto.template.php",
		"Dto/Update__singular@pascalize__Dto.template.php",
		"Entities/__singular@pascalize__Entity.template.php",
		"__name@pascalize__Controller.template.php",
		"__name@pascalize__Module.template.php",
		"__name@pascalize__Service.template.php",
	}, files)
}

const userSchema = `description: Generate a repository.
properties:
  name:
    type: string
    default:
      source: argv
      index: 0
`

func TestRegistry_LoadDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/schematics/repository/schema.yaml", []byte(userSchema), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/schematics/repository/files/__name__Repository.php", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/schematics/service/schema.yaml", []byte(userSchema), 0o644))
	require.NoError(t, fsys.MkdirAll("/schematics/service/files", 0o755))
	require.NoError(t, fsys.MkdirAll("/schematics/notes", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/schematics/README.md", []byte("#"), 0o644))

	r, err := Builtin()
	require.NoError(t, err)

	n, err := r.LoadDir(fsys, "/schematics")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, r.Types(), "repository")
	assert.NotContains(t, r.Types(), "notes")

	repo, err := r.Lookup("repository")
	require.NoError(t, err)
	assert.False(t, repo.Builtin)
	assert.Equal(t, "Generate a repository.", repo.Description)
	assert.True(t, repo.Naming.PathFromName)
	assert.Equal(t, materialize.DirSource("/schematics/repository/files"), repo.Source)

	svc, err := r.Lookup("service")
	require.NoError(t, err)
	assert.False(t, svc.Builtin, "user schematic overrides the built-in")
	assert.True(t, svc.Naming.PathFromName)
}

func TestRegistry_LoadDirMissing(t *testing.T) {
	n, err := NewRegistry().LoadDir(afero.NewMemMapFs(), "/nope")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegistry_LoadDirInvalidSchema(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/schematics/bad/schema.yaml",
		[]byte("properties:\n  name:\n    type: map\n"), 0o644))

	_, err := NewRegistry().LoadDir(fsys, "/schematics")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrSchema))
}
