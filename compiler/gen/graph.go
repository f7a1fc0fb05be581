package gen

import (
	"strings"

	"github.com/tsforge/tsforge/compiler/load"
)

// Graph holds every exportable type of a generation run together with the
// run configuration. Types whose export configuration is invalid are kept
// out of Nodes; their errors are reported by the generator without
// aborting unrelated types.
type Graph struct {
	*Config
	// Nodes holds the valid exportable types in model order.
	Nodes []*Type
	types map[string]*Type
	// invalid holds per-type configuration errors discovered while
	// building the graph.
	invalid []error
}

// Dependency is a derived edge in the dependency graph: a reference from
// one exportable type to another, via a member's type or the base type.
// Dependencies are recomputed on every generation pass, never persisted.
type Dependency struct {
	// From is the referencing type.
	From *Type
	// Ref is the referenced exportable type.
	Ref *Type
	// BaseType marks the edge produced by the declared base type.
	BaseType bool
	// DefaultDir is the default-output-directory hint carried on the
	// member attribute that produced the edge, if any.
	DefaultDir string
}

// NewGraph builds the dependency graph for the given type descriptors.
// Configuration errors scoped to a single type (invalid members, duplicate
// output paths, circular custom bases) exclude that type from Nodes and
// are reported through Errs; they never fail graph construction.
func NewGraph(c *Config, descriptors ...*load.TypeDescriptor) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("", "Config", nil, "config cannot be nil")
	}
	g := &Graph{
		Config: c,
		Nodes:  make([]*Type, 0, len(descriptors)),
		types:  make(map[string]*Type, 2*len(descriptors)),
	}
	paths := make(map[string]*Type, len(descriptors))
	for _, def := range descriptors {
		typ, err := NewType(c, def)
		if err != nil {
			g.invalid = append(g.invalid, err)
			continue
		}
		if prev, ok := paths[typ.FilePath()]; ok {
			g.invalid = append(g.invalid, NewConfigError(typ.ModelName(), "OutputDir", typ.FilePath(),
				"output path collides with type "+prev.ModelName()))
			continue
		}
		paths[typ.FilePath()] = typ
		g.Nodes = append(g.Nodes, typ)
		g.types[typ.ModelName()] = typ
		if typ.Name != typ.ModelName() {
			if _, ok := g.types[typ.Name]; !ok {
				g.types[typ.Name] = typ
			}
		}
	}
	g.pruneBaseCycles()
	return g, nil
}

// Errs returns the per-type configuration errors found while building the
// graph. The generator folds them into its result.
func (g *Graph) Errs() []error {
	return g.invalid
}

// Lookup returns the exportable type for a model type name, or nil when
// the name is not exported (primitive or ambient).
func (g *Graph) Lookup(name string) *Type {
	return g.types[name]
}

// ResolveBaseType returns the exportable type behind t's declared base
// type reference, or nil when there is none or it is not exported.
func (g *Graph) ResolveBaseType(t *Type) *Type {
	ref := t.BaseTypeRef()
	if ref == nil {
		return nil
	}
	return g.Lookup(ref.Name)
}

// Dependencies enumerates the types t's output file depends on, in
// discovery order: the declared base type first, then member types in
// declaration order. Edges are deduplicated by referenced type identity.
// The base-type edge is excluded when an explicit custom-base override is
// configured; that dependency is emitted as a custom import instead.
func (g *Graph) Dependencies(t *Type) []*Dependency {
	var deps []*Dependency
	seen := make(map[*Type]bool)
	add := func(ref *Type, base bool, hint string) {
		if ref == nil || ref == t || seen[ref] {
			return
		}
		seen[ref] = true
		deps = append(deps, &Dependency{From: t, Ref: ref, BaseType: base, DefaultDir: hint})
	}
	if t.CustomBase() == nil {
		add(g.ResolveBaseType(t), true, "")
		// Generic arguments of the base reference are rendered in the
		// extends clause and need imports of their own.
		if ref := t.BaseTypeRef(); ref != nil {
			for _, arg := range ref.Args {
				g.walkRefs(t, arg, func(dep *Type) {
					add(dep, false, "")
				})
			}
		}
	}
	for _, m := range t.ExportableMembers() {
		if m.Override != nil && m.Override.Name != "" {
			continue
		}
		g.walkRefs(t, m.Type, func(ref *Type) {
			add(ref, false, m.def.DefaultOutputDir)
		})
	}
	return deps
}

// walkRefs visits every exported type a reference reaches, including
// container elements and generic arguments, depth first.
func (g *Graph) walkRefs(owner *Type, ref *load.TypeRef, visit func(*Type)) {
	if ref == nil {
		return
	}
	if ref.Container == load.ContainerNone && !owner.genericParam(ref.Name) {
		if dep := g.Lookup(ref.Name); dep != nil {
			visit(dep)
		}
	}
	for _, arg := range ref.Args {
		g.walkRefs(owner, arg, visit)
	}
}

// ResolveOutputDir resolves the output directory of a dependency's target
// file: the referenced type's explicit directory when it declares one,
// otherwise the member-level hint that produced the edge, otherwise the
// referencing type's own directory.
func (g *Graph) ResolveOutputDir(dep *Dependency) string {
	if dir := dep.Ref.OutputDir(); dir != "" {
		return cleanDir(dir)
	}
	if dep.DefaultDir != "" {
		return cleanDir(dep.DefaultDir)
	}
	return dep.From.Dir()
}

// ImportSpec returns the import specifier for a file named base generated
// in toDir, as referenced from fromDir.
func ImportSpec(fromDir, toDir, base string) string {
	rel := RelativePath(fromDir, toDir)
	if !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return rel + base
}

// RelativePath computes the shortest parent-relative path from one
// directory to another using POSIX separators. The result is always
// explicitly relative: it starts with "./" unless it already climbs with
// "../". It is total over any two directory strings; empty input means
// the output root.
func RelativePath(fromDir, toDir string) string {
	from := splitDir(fromDir)
	to := splitDir(toDir)
	shared := 0
	for shared < len(from) && shared < len(to) && from[shared] == to[shared] {
		shared++
	}
	var b strings.Builder
	for range from[shared:] {
		b.WriteString("../")
	}
	if b.Len() == 0 {
		b.WriteString("./")
	}
	b.WriteString(strings.Join(to[shared:], "/"))
	return b.String()
}

func splitDir(dir string) []string {
	dir = cleanDir(dir)
	if dir == "." {
		return nil
	}
	return strings.Split(dir, "/")
}

// pruneBaseCycles removes types whose custom-base overrides form a cycle
// through exported types, recording a ConfigError for each participant.
func (g *Graph) pruneBaseCycles() {
	inCycle := make(map[*Type]bool)
	for _, t := range g.Nodes {
		if inCycle[t] {
			continue
		}
		trail := []*Type{}
		onTrail := make(map[*Type]bool)
		cur := t
		for cur != nil && !onTrail[cur] && !inCycle[cur] {
			onTrail[cur] = true
			trail = append(trail, cur)
			cb := cur.CustomBase()
			if cb == nil {
				cur = nil
				break
			}
			cur = g.Lookup(cb.Name)
		}
		if cur == nil || inCycle[cur] {
			continue
		}
		// Every type from the first occurrence of cur onward is cyclic.
		start := 0
		for i, tt := range trail {
			if tt == cur {
				start = i
				break
			}
		}
		for _, tt := range trail[start:] {
			inCycle[tt] = true
			g.invalid = append(g.invalid, NewConfigError(tt.ModelName(), "BaseType", tt.CustomBase().Name,
				"circular custom base"))
		}
	}
	if len(inCycle) == 0 {
		return
	}
	kept := g.Nodes[:0]
	for _, t := range g.Nodes {
		if inCycle[t] {
			delete(g.types, t.ModelName())
			if g.types[t.Name] == t {
				delete(g.types, t.Name)
			}
			continue
		}
		kept = append(kept, t)
	}
	g.Nodes = kept
}
