package gen

import (
	"strings"

	"github.com/tsforge/tsforge/compiler/load"
)

// primitives maps source-language primitive names to their TypeScript
// rendering. Referenced types that are neither primitive nor exported are
// treated as ambient and render by name without an import.
var primitives = map[string]string{
	"string":   "string",
	"char":     "string",
	"guid":     "string",
	"uuid":     "string",
	"datetime": "string",
	"date":     "string",
	"time":     "string",
	"bool":     "boolean",
	"boolean":  "boolean",
	"byte":     "number",
	"sbyte":    "number",
	"short":    "number",
	"ushort":   "number",
	"int":      "number",
	"uint":     "number",
	"long":     "number",
	"ulong":    "number",
	"float":    "number",
	"double":   "number",
	"decimal":  "number",
	"number":   "number",
	"object":   "any",
	"any":      "any",
	"dynamic":  "any",
	"void":     "void",
}

// MemberTsType resolves the TypeScript type text for a member of owner.
// An explicit per-member override wins over the default resolution chain.
func (g *Graph) MemberTsType(owner *Type, m *Member) string {
	if m.Override != nil && m.Override.Name != "" {
		return m.Override.Name
	}
	return g.TsType(owner, m.Type, false)
}

// TsType resolves a type reference into TypeScript source text. The
// resolution chain is: container/generic-argument mapping, the owner's
// generic parameters, the primitive table, exported types (converted
// display name), and finally ambient pass-through with arity stripping.
//
// When forExtends is true and the referenced type is an open generic, its
// arguments pass through unresolved so the extends clause matches the
// base declaration's own generic parameter names.
func (g *Graph) TsType(owner *Type, ref *load.TypeRef, forExtends bool) string {
	if ref == nil {
		return "any"
	}
	switch ref.Container {
	case load.ContainerList:
		// A list reference missing its element argument degrades to any
		// instead of panicking a generation worker.
		if len(ref.Args) < 1 {
			return "any[]"
		}
		return g.TsType(owner, ref.Args[0], false) + "[]"
	case load.ContainerMap:
		if len(ref.Args) < 2 {
			return "{ [key: string]: any }"
		}
		return "{ [key: string]: " + g.TsType(owner, ref.Args[1], false) + " }"
	}
	if owner != nil && owner.genericParam(ref.Name) {
		return ref.Name
	}
	if ts, ok := primitives[strings.ToLower(ref.Name)]; ok {
		return ts
	}
	if dep := g.Lookup(ref.Name); dep != nil {
		name := dep.TsName()
		switch {
		case len(ref.Args) > 0:
			return name + "<" + g.tsArgs(owner, ref.Args) + ">"
		case forExtends && len(dep.GenericParams) > 0:
			return name + "<" + strings.Join(dep.GenericParams, ", ") + ">"
		default:
			return name
		}
	}
	// Ambient type: render by converted name, no import contributed.
	name := ref.Name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	name = g.Config.typeName(name)
	if len(ref.Args) > 0 {
		return name + "<" + g.tsArgs(owner, ref.Args) + ">"
	}
	return name
}

func (g *Graph) tsArgs(owner *Type, args []*load.TypeRef) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = g.TsType(owner, arg, false)
	}
	return strings.Join(parts, ", ")
}
