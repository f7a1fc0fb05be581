package gen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsforge/tsforge/compiler/load"
)

// File is one generated output unit: a path relative to the output root
// and the full file text, assembled in memory before any write.
type File struct {
	Path string
	Text string
}

// IndexFileName is the name of the generated barrel file.
const IndexFileName = "index.ts"

// Generator composes the type model, dependency resolution, templates and
// content preservation into final file text, one file per exported type.
// Generation is parallel at type granularity: no type's generation reads
// state produced by another's.
type Generator struct {
	graph   *Graph
	tmpl    *TemplateSet
	merger  *Merger
	outDir  string
	workers int
}

// NewGenerator creates a generator for the graph, writing under the
// configured target directory.
func NewGenerator(g *Graph) *Generator {
	outDir := g.Target
	if outDir == "" {
		outDir = "."
	}
	return &Generator{
		graph:   g,
		tmpl:    NewTemplateSet(g.Options),
		merger:  NewMerger(g.Options),
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (gen *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		gen.workers = n
	}
	return gen
}

// WithTemplates sets a custom template set.
func (gen *Generator) WithTemplates(ts *TemplateSet) *Generator {
	if ts != nil {
		gen.tmpl = ts
	}
	return gen
}

// WithMerger sets a custom content merger.
func (gen *Generator) WithMerger(m *Merger) *Generator {
	if m != nil {
		gen.merger = m
	}
	return gen
}

// Graph returns the dependency graph.
func (gen *Generator) Graph() *Graph {
	return gen.graph
}

// Files generates every type's output in memory and returns the files in
// model order, followed by the index barrel when enabled. A configuration
// error on one type never prevents generation of unrelated types; the
// returned error joins all per-type failures and is non-nil if any type
// failed.
func (gen *Generator) Files(ctx context.Context) ([]File, error) {
	nodes := gen.graph.Nodes
	results := make([]*File, len(nodes))
	failures := make([]error, len(nodes))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(gen.workers)
	for i, t := range nodes {
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			f, err := gen.generateType(t)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = &f
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(nodes)+1)
	for _, f := range results {
		if f != nil {
			files = append(files, *f)
		}
	}
	if gen.graph.IndexFile {
		index, err := gen.indexFile(files)
		if err != nil {
			failures = append(failures, err)
		} else {
			files = append(files, index)
		}
	}
	errs := append(append([]error{}, gen.graph.Errs()...), failures...)
	return files, errors.Join(errs...)
}

// Generate assembles and writes every output file. Each file's content is
// complete in memory before its write replaces the previous contents.
// All writable types are written even when others fail; the returned
// error reports every failure.
func (gen *Generator) Generate(ctx context.Context) error {
	files, genErr := gen.Files(ctx)
	var errs []error
	if genErr != nil {
		errs = append(errs, genErr)
	}
	for _, f := range files {
		full := filepath.Join(gen.outDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			errs = append(errs, NewGenerationError("", f.Path, "create output directory", err))
			continue
		}
		if err := os.WriteFile(full, []byte(f.Text), 0o644); err != nil {
			errs = append(errs, NewGenerationError("", f.Path, "write output file", err))
		}
	}
	return errors.Join(errs...)
}

// generateType assembles the final text of one type's output file.
func (gen *Generator) generateType(t *Type) (File, error) {
	relPath := t.FilePath()
	prior := filepath.Join(gen.outDir, filepath.FromSlash(relPath))

	members, err := gen.membersBlock(t)
	if err != nil {
		return File{}, NewGenerationError(t.ModelName(), relPath, "render members", err)
	}

	var text string
	switch t.Kind {
	case KindEnum:
		constTok := ""
		if gen.graph.Options.ConstEnums {
			constTok = "const "
		}
		text, err = gen.tmpl.Fill(TemplateEnum, map[string]string{
			"const":   constTok,
			"name":    t.DeclName(),
			"members": members,
		})
	default:
		imports, impErr := gen.importsBlock(t)
		if impErr != nil {
			return File{}, NewGenerationError(t.ModelName(), relPath, "render imports", impErr)
		}
		id := TemplateClass
		if t.Kind == KindInterface {
			id = TemplateInterface
		}
		text, err = gen.tmpl.Fill(id, map[string]string{
			"head":    gen.merger.CustomHead(prior),
			"imports": imports,
			"name":    t.DeclName(),
			"extends": gen.extendsClause(t),
			"members": members,
			"body":    gen.merger.CustomBody(prior, 1),
		})
	}
	if err != nil {
		return File{}, NewGenerationError(t.ModelName(), relPath, "render declaration", err)
	}
	return File{Path: relPath, Text: text}, nil
}

// importsBlock renders the dependency imports followed by the custom
// imports, each deduplicated by rendered text, separated from the
// declaration by exactly one blank line when non-empty.
func (gen *Generator) importsBlock(t *Type) (string, error) {
	var b strings.Builder
	seen := make(map[string]bool)
	emit := func(line string) {
		if !seen[line] {
			seen[line] = true
			b.WriteString(line)
		}
	}

	for _, dep := range gen.graph.Dependencies(t) {
		dir := gen.graph.ResolveOutputDir(dep)
		line, err := gen.tmpl.Fill(TemplateImport, map[string]string{
			"type":  dep.Ref.TsName(),
			"alias": "",
			"path":  ImportSpec(t.Dir(), dir, dep.Ref.FileBase()),
		})
		if err != nil {
			return "", err
		}
		emit(line)
	}

	for _, m := range t.ExportableMembers() {
		if m.Override == nil || m.Override.ImportPath == "" {
			continue
		}
		line, err := gen.customImport(m.Override)
		if err != nil {
			return "", err
		}
		emit(line)
	}
	if cb := t.CustomBase(); cb != nil && cb.ImportPath != "" {
		line, err := gen.customImport(cb)
		if err != nil {
			return "", err
		}
		emit(line)
	}

	if b.Len() == 0 {
		return "", nil
	}
	return b.String() + "\n", nil
}

// customImport renders an import for a type override. When the override
// carries an alias, the module's exported name is imported under the
// local one: import { Alias as Name }.
func (gen *Generator) customImport(o *load.TypeOverride) (string, error) {
	name, alias := o.Name, ""
	if o.Alias != "" {
		name = o.Alias
		alias = " as " + o.Name
	}
	return gen.tmpl.Fill(TemplateImport, map[string]string{
		"type":  name,
		"alias": alias,
		"path":  o.ImportPath,
	})
}

// extendsClause renders the extends text for a class or interface.
// A custom base override replaces the declared base entirely.
func (gen *Generator) extendsClause(t *Type) string {
	if cb := t.CustomBase(); cb != nil {
		return " extends " + cb.Name
	}
	ref := t.BaseTypeRef()
	if ref == nil {
		return ""
	}
	return " extends " + gen.graph.TsType(t, ref, true)
}

// membersBlock renders the properties or enum values of a type, one line
// per exportable member, in declaration order.
func (gen *Generator) membersBlock(t *Type) (string, error) {
	var b strings.Builder
	for _, m := range t.ExportableMembers() {
		var line string
		var err error
		switch t.Kind {
		case KindEnum:
			line, err = gen.tmpl.Fill(TemplateEnumValue, map[string]string{
				"name":  m.Name,
				"value": strconv.FormatInt(m.EnumValue, 10),
			})
		case KindInterface:
			optional := ""
			if m.Optional {
				optional = "?"
			}
			line, err = gen.tmpl.Fill(TemplateInterfaceProperty, map[string]string{
				"name":     gen.graph.memberName(m.Name),
				"optional": optional,
				"type":     gen.graph.MemberTsType(t, m),
			})
		default:
			id := TemplateClassProperty
			values := map[string]string{
				"name": gen.graph.memberName(m.Name),
				"type": gen.graph.MemberTsType(t, m),
			}
			if m.Default != "" {
				id = TemplateClassPropertyDefault
				values["default"] = m.Default
			}
			line, err = gen.tmpl.Fill(id, values)
		}
		if err != nil {
			return "", err
		}
		b.WriteString(line)
	}
	return b.String(), nil
}

// indexFile renders the barrel file: one export line per generated file,
// in the order types were processed. This is a sequential reduction after
// all per-type outputs are computed.
func (gen *Generator) indexFile(files []File) (File, error) {
	var b strings.Builder
	for _, f := range files {
		line, err := gen.tmpl.Fill(TemplateIndexExport, map[string]string{
			"path": "./" + strings.TrimSuffix(f.Path, ".ts"),
		})
		if err != nil {
			return File{}, NewGenerationError("", IndexFileName, "render index export", err)
		}
		b.WriteString(line)
	}
	text, err := gen.tmpl.Fill(TemplateIndexFile, map[string]string{"exports": b.String()})
	if err != nil {
		return File{}, NewGenerationError("", IndexFileName, "render index file", err)
	}
	return File{Path: IndexFileName, Text: text}, nil
}
