package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsforge/tsforge/compiler/load"
)

func TestRelativePath(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"/out/a", "/out/a", "./"},
		{"/out/a", "/out/a/b", "./b"},
		{"/out/a/b", "/out/a", "../"},
		{"/out/a", "/out/c", "../c"},
		{"", "", "./"},
		{"", "model", "./model"},
		{"model", "", "../"},
		{"model/shared", "model", "../"},
		{"a/b/c", "x", "../../../x"},
		{"a/b", "a/b/c/d", "./c/d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativePath(tt.from, tt.to), "RelativePath(%q, %q)", tt.from, tt.to)
	}
}

func TestImportSpec(t *testing.T) {
	assert.Equal(t, "./shared/b", ImportSpec("model", "model/shared", "b"))
	assert.Equal(t, "./b", ImportSpec("model", "model", "b"))
	assert.Equal(t, "../b", ImportSpec("model/shared", "model", "b"))
	assert.Equal(t, "../c/b", ImportSpec("model/a", "model/c", "b"))
}

func TestGraphLookup(t *testing.T) {
	require := require.New(t)
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "User", Kind: load.KindClass},
		&load.TypeDescriptor{Name: "Response`1", Kind: load.KindClass},
	)
	require.NoError(err)
	require.Empty(g.Errs())
	require.Len(g.Nodes, 2)
	assert.NotNil(t, g.Lookup("User"))
	assert.NotNil(t, g.Lookup("Response`1"))
	assert.NotNil(t, g.Lookup("Response"))
	assert.Nil(t, g.Lookup("Missing"))
}

func TestGraphDuplicateOutputPath(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "User", Kind: load.KindClass},
		&load.TypeDescriptor{Name: "user", Kind: load.KindInterface},
	)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1, "first type wins; second is a configuration error")
	require.Len(t, g.Errs(), 1)
	assert.True(t, IsConfigError(g.Errs()[0]))
	assert.Contains(t, g.Errs()[0].Error(), "user")
}

func TestGraphDependencies(t *testing.T) {
	refB := &load.TypeRef{Name: "B"}
	refC := &load.TypeRef{Name: "C"}
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{
			Name:     "A",
			Kind:     load.KindClass,
			BaseType: refC,
			Members: []*load.MemberDescriptor{
				{Name: "first", Type: refB},
				{Name: "second", Type: refB},
				{Name: "third", Type: &load.TypeRef{Container: load.ContainerList, Args: []*load.TypeRef{refB}}},
			},
		},
		&load.TypeDescriptor{Name: "B", Kind: load.KindClass},
		&load.TypeDescriptor{Name: "C", Kind: load.KindClass},
	)
	require.NoError(t, err)
	require.Empty(t, g.Errs())

	deps := g.Dependencies(g.Lookup("A"))
	require.Len(t, deps, 2, "deduplicated by referenced type identity")
	assert.Equal(t, "C", deps[0].Ref.Name, "base type discovered first")
	assert.True(t, deps[0].BaseType)
	assert.Equal(t, "B", deps[1].Ref.Name)
	assert.False(t, deps[1].BaseType)
}

func TestGraphDependenciesSkipped(t *testing.T) {
	t.Run("custom base excludes the base edge", func(t *testing.T) {
		g, err := NewGraph(testConfig(),
			&load.TypeDescriptor{
				Name:     "A",
				Kind:     load.KindClass,
				BaseType: &load.TypeRef{Name: "C"},
				Export: &load.ExportConfig{
					BaseType: &load.TypeOverride{Name: "ViewModel", ImportPath: "../viewmodel"},
				},
			},
			&load.TypeDescriptor{Name: "C", Kind: load.KindClass},
		)
		require.NoError(t, err)
		assert.Empty(t, g.Dependencies(g.Lookup("A")))
	})

	t.Run("overridden member contributes no edge", func(t *testing.T) {
		g, err := NewGraph(testConfig(),
			&load.TypeDescriptor{
				Name: "A",
				Kind: load.KindClass,
				Members: []*load.MemberDescriptor{
					{Name: "when", Type: &load.TypeRef{Name: "B"}, Override: &load.TypeOverride{Name: "Moment", ImportPath: "moment"}},
				},
			},
			&load.TypeDescriptor{Name: "B", Kind: load.KindClass},
		)
		require.NoError(t, err)
		assert.Empty(t, g.Dependencies(g.Lookup("A")))
	})

	t.Run("self reference contributes no edge", func(t *testing.T) {
		g, err := NewGraph(testConfig(),
			&load.TypeDescriptor{
				Name: "Node",
				Kind: load.KindClass,
				Members: []*load.MemberDescriptor{
					{Name: "children", Type: &load.TypeRef{Container: load.ContainerList, Args: []*load.TypeRef{{Name: "Node"}}}},
				},
			},
		)
		require.NoError(t, err)
		assert.Empty(t, g.Dependencies(g.Lookup("Node")))
	})
}

func TestResolveOutputDir(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{
			Name:   "A",
			Kind:   load.KindClass,
			Export: &load.ExportConfig{OutputDir: "model"},
			Members: []*load.MemberDescriptor{
				{Name: "explicit", Type: &load.TypeRef{Name: "B"}},
				{Name: "hinted", Type: &load.TypeRef{Name: "C"}, DefaultOutputDir: "model/shared"},
				{Name: "inherited", Type: &load.TypeRef{Name: "D"}},
			},
		},
		&load.TypeDescriptor{Name: "B", Kind: load.KindClass, Export: &load.ExportConfig{OutputDir: "api"}},
		&load.TypeDescriptor{Name: "C", Kind: load.KindClass},
		&load.TypeDescriptor{Name: "D", Kind: load.KindClass},
	)
	require.NoError(t, err)
	deps := g.Dependencies(g.Lookup("A"))
	require.Len(t, deps, 3)
	assert.Equal(t, "api", g.ResolveOutputDir(deps[0]), "explicit directory on the referenced type wins")
	assert.Equal(t, "model/shared", g.ResolveOutputDir(deps[1]), "member hint is the fallback")
	assert.Equal(t, "model", g.ResolveOutputDir(deps[2]), "parent directory is inherited last")
}

func TestGraphCustomBaseCycle(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "A", Kind: load.KindClass,
			Export: &load.ExportConfig{BaseType: &load.TypeOverride{Name: "B"}}},
		&load.TypeDescriptor{Name: "B", Kind: load.KindClass,
			Export: &load.ExportConfig{BaseType: &load.TypeOverride{Name: "A"}}},
		&load.TypeDescriptor{Name: "C", Kind: load.KindClass},
	)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1, "cycle participants are excluded")
	assert.Equal(t, "C", g.Nodes[0].Name)
	require.Len(t, g.Errs(), 2)
	for _, err := range g.Errs() {
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "circular custom base")
	}
}

func testConfig() *Config {
	return &Config{Options: DefaultOptions()}
}
