package gen

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsforge/tsforge/compiler/load"
)

func classA(memberType string) *load.TypeDescriptor {
	return &load.TypeDescriptor{
		Name: "A", Kind: load.KindClass,
		Export: &load.ExportConfig{OutputDir: "model"},
		Members: []*load.MemberDescriptor{
			{Name: "b", Type: &load.TypeRef{Name: memberType}},
		},
	}
}

func sharedClass(name string) *load.TypeDescriptor {
	return &load.TypeDescriptor{
		Name: name, Kind: load.KindClass,
		Export: &load.ExportConfig{OutputDir: "model/shared"},
	}
}

func TestGenerateClassWithImport(t *testing.T) {
	require := require.New(t)
	g, err := NewGraph(testConfig(), classA("B"), sharedClass("B"))
	require.NoError(err)

	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(err)
	require.Len(files, 2)

	assert.Equal(t, "model/a.ts", files[0].Path)
	assert.Equal(t, "import { B } from \"./shared/b\";\n\nexport class A {\n    b: B;\n}\n", files[0].Text)
	assert.Equal(t, "model/shared/b.ts", files[1].Path)
	assert.Equal(t, "export class B {\n}\n", files[1].Text)
}

func TestGenerateInterface(t *testing.T) {
	g, err := NewGraph(testConfig(), &load.TypeDescriptor{
		Name: "Shape", Kind: load.KindInterface,
		Members: []*load.MemberDescriptor{
			{Name: "Id", Type: &load.TypeRef{Name: "string"}},
			{Name: "Label", Type: &load.TypeRef{Name: "string"}, Optional: true},
		},
	})
	require.NoError(t, err)

	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "shape.ts", files[0].Path)
	assert.Equal(t, "export interface Shape {\n    id: string;\n    label?: string;\n}\n", files[0].Text)
}

func TestGenerateEnum(t *testing.T) {
	color := &load.TypeDescriptor{
		Name: "Color", Kind: load.KindEnum,
		Members: []*load.MemberDescriptor{
			{Name: "Red", EnumValue: 0},
			{Name: "Green", EnumValue: 10},
		},
	}

	t.Run("plain", func(t *testing.T) {
		g, err := NewGraph(testConfig(), color)
		require.NoError(t, err)
		files, err := NewGenerator(g).Files(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "export enum Color {\n    Red = 0,\n    Green = 10,\n}\n", files[0].Text)
	})

	t.Run("const", func(t *testing.T) {
		g, err := NewGraph(MustNewConfig(WithConstEnums()), color)
		require.NoError(t, err)
		files, err := NewGenerator(g).Files(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "export const enum Color {\n    Red = 0,\n    Green = 10,\n}\n", files[0].Text)
	})
}

func TestGenerateClassDefault(t *testing.T) {
	g, err := NewGraph(testConfig(), &load.TypeDescriptor{
		Name: "Settings", Kind: load.KindClass,
		Members: []*load.MemberDescriptor{
			{Name: "Retries", Type: &load.TypeRef{Name: "int"}, Default: "3"},
		},
	})
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "export class Settings {\n    retries: number = 3;\n}\n", files[0].Text)
}

func TestGenerateImportDedup(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{
			Name: "A", Kind: load.KindClass,
			Export: &load.ExportConfig{OutputDir: "model"},
			Members: []*load.MemberDescriptor{
				{Name: "first", Type: &load.TypeRef{Name: "B"}},
				{Name: "second", Type: &load.TypeRef{Name: "B"}},
				{Name: "many", Type: &load.TypeRef{Container: load.ContainerList, Args: []*load.TypeRef{{Name: "B"}}}},
			},
		},
		sharedClass("B"),
	)
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(files[0].Text, "import { B }"))
	assert.Equal(t, "import { B } from \"./shared/b\";\n\nexport class A {\n"+
		"    first: B;\n    second: B;\n    many: B[];\n}\n", files[0].Text)
}

func TestGenerateCustomImports(t *testing.T) {
	g, err := NewGraph(testConfig(), &load.TypeDescriptor{
		Name: "Event", Kind: load.KindClass,
		BaseType: &load.TypeRef{Name: "ModelBase"},
		Export: &load.ExportConfig{
			BaseType: &load.TypeOverride{Name: "ViewModel", ImportPath: "./viewmodel", Alias: "VM"},
		},
		Members: []*load.MemberDescriptor{
			{Name: "When", Type: &load.TypeRef{Name: "DateTime"},
				Override: &load.TypeOverride{Name: "Moment", ImportPath: "moment"}},
		},
	})
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t,
		"import { Moment } from \"moment\";\n"+
			"import { VM as ViewModel } from \"./viewmodel\";\n\n"+
			"export class Event extends ViewModel {\n"+
			"    when: Moment;\n}\n",
		files[0].Text)
}

func TestGenerateExtendsDeclaredBase(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "Admin", Kind: load.KindClass, BaseType: &load.TypeRef{Name: "User"}},
		&load.TypeDescriptor{Name: "User", Kind: load.KindClass},
	)
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "import { User } from \"./user\";\n\nexport class Admin extends User {\n}\n", files[0].Text)
}

func TestGenerateGenericExtends(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "Response`1", Kind: load.KindClass,
			Members: []*load.MemberDescriptor{
				{Name: "Payload", Type: &load.TypeRef{Name: "T"}},
			}},
		&load.TypeDescriptor{Name: "UserResponse", Kind: load.KindClass,
			BaseType: &load.TypeRef{Name: "Response`1", Args: []*load.TypeRef{{Name: "User"}}}},
		&load.TypeDescriptor{Name: "User", Kind: load.KindClass},
	)
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "export class Response<T> {\n    payload: T;\n}\n", files[0].Text)
	assert.Equal(t,
		"import { Response } from \"./response\";\n"+
			"import { User } from \"./user\";\n\n"+
			"export class UserResponse extends Response<User> {\n}\n",
		files[1].Text)
}

func TestGenerateIndexFile(t *testing.T) {
	g, err := NewGraph(MustNewConfig(WithIndexFile()), classA("B"), sharedClass("B"))
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, IndexFileName, files[2].Path)
	assert.Equal(t, "export * from \"./model/a\";\nexport * from \"./model/shared/b\";\n", files[2].Text)
}

func TestGenerateFailureIsolation(t *testing.T) {
	require := require.New(t)
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "Broken", Kind: "struct"},
		&load.TypeDescriptor{Name: "Fine", Kind: load.KindClass},
	)
	require.NoError(err)

	files, err := NewGenerator(g).Files(context.Background())
	require.Error(err)
	assert.True(t, IsConfigError(err))
	require.Len(files, 1, "valid types still generate")
	assert.Equal(t, "fine.ts", files[0].Path)
}

func TestGenerateDuplicatePathError(t *testing.T) {
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "User", Kind: load.KindClass},
		&load.TypeDescriptor{Name: "user", Kind: load.KindInterface},
	)
	require.NoError(t, err)
	files, err := NewGenerator(g).Files(context.Background())
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	require.Len(t, files, 1)
}

func TestGenerateMalformedBaseRef(t *testing.T) {
	// A container-shaped base reference with no arguments must not take
	// down the run; it degrades in place and unrelated types generate.
	g, err := NewGraph(testConfig(),
		&load.TypeDescriptor{Name: "A", Kind: load.KindClass,
			BaseType: &load.TypeRef{Container: load.ContainerList}},
		&load.TypeDescriptor{Name: "B", Kind: load.KindClass},
	)
	require.NoError(t, err)

	files, err := NewGenerator(g).Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "export class A extends any[] {\n}\n", files[0].Text)
	assert.Equal(t, "export class B {\n}\n", files[1].Text)
}

func TestGenerateCanceledContext(t *testing.T) {
	g, err := NewGraph(testConfig(), classA("B"), sharedClass("B"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGenerator(g).WithWorkers(1).Files(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateIdempotent(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	cfg := MustNewConfig(WithTarget(dir))

	run := func() {
		g, err := NewGraph(cfg, classA("B"), sharedClass("B"))
		require.NoError(err)
		require.NoError(NewGenerator(g).Generate(context.Background()))
	}

	run()
	first, err := os.ReadFile(filepath.Join(dir, "model", "a.ts"))
	require.NoError(err)

	run()
	second, err := os.ReadFile(filepath.Join(dir, "model", "a.ts"))
	require.NoError(err)
	assert.Equal(t, string(first), string(second), "regeneration without edits is byte identical")
	assert.NotContains(t, string(first), "//<", "fresh output carries no markers")
}

func TestGeneratePreservesCustomRegions(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	cfg := MustNewConfig(WithTarget(dir))
	aPath := filepath.Join(dir, "model", "a.ts")

	g, err := NewGraph(cfg, classA("B"), sharedClass("B"))
	require.NoError(err)
	require.NoError(NewGenerator(g).Generate(context.Background()))

	// A developer adds a custom head and a custom body by hand.
	text, err := os.ReadFile(aPath)
	require.NoError(err)
	edited := "//<custom-head>\nimport { helper } from \"../helper\";\n//</custom-head>\n" + string(text)
	edited = strings.Replace(edited, "}\n",
		"    //<custom-body>\n    label(): string {\n        return this.b.toString();\n    }\n    //</custom-body>\n}\n", 1)
	require.NoError(os.WriteFile(aPath, []byte(edited), 0o644))

	// The model renames B to C; regeneration rewrites the generated parts
	// and keeps both custom regions.
	g, err = NewGraph(cfg, classA("C"), sharedClass("C"))
	require.NoError(err)
	require.NoError(NewGenerator(g).Generate(context.Background()))

	text, err = os.ReadFile(aPath)
	require.NoError(err)
	assert.Equal(t,
		"//<custom-head>\nimport { helper } from \"../helper\";\n//</custom-head>\n"+
			"import { C } from \"./shared/c\";\n\n"+
			"export class A {\n"+
			"    b: C;\n"+
			"    //<custom-body>\n"+
			"    label(): string {\n"+
			"        return this.b.toString();\n"+
			"    }\n"+
			"    //</custom-body>\n"+
			"}\n",
		string(text))

	// A further regeneration reaches a fixed point.
	g, err = NewGraph(cfg, classA("C"), sharedClass("C"))
	require.NoError(err)
	require.NoError(NewGenerator(g).Generate(context.Background()))
	again, err := os.ReadFile(aPath)
	require.NoError(err)
	assert.Equal(t, string(text), string(again))
}

func BenchmarkFiles(b *testing.B) {
	descriptors := make([]*load.TypeDescriptor, 0, 100)
	for i := 0; i < 100; i++ {
		descriptors = append(descriptors, &load.TypeDescriptor{
			Name: "Type" + strconv.Itoa(i), Kind: load.KindClass,
			Export: &load.ExportConfig{OutputDir: "model"},
			Members: []*load.MemberDescriptor{
				{Name: "id", Type: &load.TypeRef{Name: "guid"}},
				{Name: "next", Type: &load.TypeRef{Name: "Type" + strconv.Itoa((i+1)%100)}},
			},
		})
	}
	g, err := NewGraph(testConfig(), descriptors...)
	if err != nil {
		b.Fatal(err)
	}
	gen := NewGenerator(g)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.Files(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGenerateBodyNestedInHead(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	cfg := MustNewConfig(WithTarget(dir))
	aPath := filepath.Join(dir, "a.ts")

	// A developer placed the body region inside the head region by hand.
	prior := "//<custom-head>\n// note\n//<custom-body>\nkept();\n//</custom-body>\n//</custom-head>\nexport class A {\n}\n"
	require.NoError(os.WriteFile(aPath, []byte(prior), 0o644))

	g, err := NewGraph(cfg, &load.TypeDescriptor{Name: "A", Kind: load.KindClass})
	require.NoError(err)
	require.NoError(NewGenerator(g).Generate(context.Background()))

	text, err := os.ReadFile(aPath)
	require.NoError(err)
	assert.Equal(t,
		"//<custom-head>\n// note\n//</custom-head>\n"+
			"export class A {\n"+
			"    //<custom-body>\n"+
			"    kept();\n"+
			"    //</custom-body>\n"+
			"}\n",
		string(text))
	assert.Equal(t, 1, strings.Count(string(text), "kept();"), "nested regions render once")
}

func TestGenerateGraphAccessor(t *testing.T) {
	g, err := NewGraph(testConfig(), classA("B"), sharedClass("B"))
	require.NoError(t, err)
	gen := NewGenerator(g)
	assert.Same(t, g, gen.Graph())
}
