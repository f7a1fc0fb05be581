package gen

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tsforge/tsforge/compiler/load"
)

// Kind is the declaration kind of an exportable type.
type Kind int

// Declaration kinds.
const (
	KindClass Kind = iota
	KindInterface
	KindEnum
)

// String returns the kind name as it appears in model documents.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return load.KindClass
	case KindInterface:
		return load.KindInterface
	case KindEnum:
		return load.KindEnum
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type (
	// Type represents one exportable type of the model. It is constructed
	// once per generation run and immutable thereafter.
	Type struct {
		*Config
		def *load.TypeDescriptor
		// Name is the display name with any generic arity suffix stripped.
		Name string
		// Kind is the declaration kind.
		Kind Kind
		// GenericParams holds the generic parameter names, if any.
		GenericParams []string
		// Members holds all declared members in declaration order,
		// including ignored and non-exportable ones.
		Members []*Member
		members map[string]*Member
	}

	// Member represents one declared field, property or enum value.
	Member struct {
		def *load.MemberDescriptor
		// Name is the declared source name.
		Name string
		// Type is the declared type reference. Nil for enum values.
		Type *load.TypeRef
		// Optional renders the member with an optional marker.
		Optional bool
		// Default is the initializer expression, verbatim. Empty means none.
		Default string
		// EnumValue is the integer value of an enum member.
		EnumValue int64
		// Override replaces the resolved TypeScript type for this member.
		Override *load.TypeOverride
	}
)

// NewType builds a Type from its descriptor and validates the export
// configuration. Violations are ConfigErrors carrying the type name.
func NewType(c *Config, def *load.TypeDescriptor) (*Type, error) {
	if def.Name == "" {
		return nil, NewConfigError("", "Name", nil, "type name cannot be empty")
	}
	kind, err := parseKind(def)
	if err != nil {
		return nil, err
	}
	name, params := splitGeneric(def)
	typ := &Type{
		Config:        c,
		def:           def,
		Name:          name,
		Kind:          kind,
		GenericParams: params,
		Members:       make([]*Member, 0, len(def.Members)),
		members:       make(map[string]*Member, len(def.Members)),
	}
	for _, md := range def.Members {
		if md.Name == "" {
			return nil, NewConfigError(def.Name, "Member", nil, "member name cannot be empty")
		}
		if _, ok := typ.members[md.Name]; ok {
			return nil, NewConfigError(def.Name, "Member", md.Name, "member redeclared")
		}
		if md.Override != nil && md.Override.Alias != "" && md.Override.Name == "" {
			return nil, NewConfigError(def.Name, "Override", md.Name, "type override declares an alias without a backing name")
		}
		m := &Member{
			def:       md,
			Name:      md.Name,
			Type:      md.Type,
			Optional:  md.Optional,
			Default:   md.Default,
			EnumValue: md.EnumValue,
			Override:  md.Override,
		}
		typ.Members = append(typ.Members, m)
		typ.members[md.Name] = m
	}
	if cb := typ.CustomBase(); cb != nil && cb.Alias != "" && cb.Name == "" {
		return nil, NewConfigError(def.Name, "BaseType", nil, "custom base declares an alias without a backing name")
	}
	return typ, nil
}

func parseKind(def *load.TypeDescriptor) (Kind, error) {
	switch def.Kind {
	case load.KindClass:
		return KindClass, nil
	case load.KindInterface:
		return KindInterface, nil
	case load.KindEnum:
		return KindEnum, nil
	default:
		return 0, NewConfigError(def.Name, "Kind", def.Kind, "unknown type kind")
	}
}

// splitGeneric strips a backtick arity suffix from the model name and
// resolves the generic parameter names. Parameters default to T, T2, T3…
// when the model names none.
func splitGeneric(def *load.TypeDescriptor) (string, []string) {
	name := def.Name
	arity := def.Arity
	if i := strings.IndexByte(name, '`'); i >= 0 {
		if arity == 0 {
			if n, err := strconv.Atoi(name[i+1:]); err == nil {
				arity = n
			}
		}
		name = name[:i]
	}
	if len(def.GenericParams) > 0 {
		return name, def.GenericParams
	}
	if arity <= 0 {
		return name, nil
	}
	params := make([]string, arity)
	for i := range params {
		if i == 0 {
			params[i] = "T"
		} else {
			params[i] = fmt.Sprintf("T%d", i+1)
		}
	}
	return name, params
}

// ModelName returns the unstripped name used in model type references.
func (t *Type) ModelName() string {
	return t.def.Name
}

// DeclName returns the name used in the declaration, including generic
// parameters: "Response<T>" for a unary generic.
func (t *Type) DeclName() string {
	name := t.typeName(t.Name)
	if len(t.GenericParams) == 0 {
		return name
	}
	return name + "<" + strings.Join(t.GenericParams, ", ") + ">"
}

// TsName returns the converted TypeScript type name, without generics.
func (t *Type) TsName() string {
	return t.typeName(t.Name)
}

// ExportableMembers returns the members that take part in generation,
// in declaration order. Ignored, static and non-public members are
// filtered out; the order is never re-sorted because properties render
// in this order.
func (t *Type) ExportableMembers() []*Member {
	out := make([]*Member, 0, len(t.Members))
	for _, m := range t.Members {
		if m.def.Ignore || m.def.Static || m.def.NonPublic {
			continue
		}
		out = append(out, m)
	}
	return out
}

// BaseTypeRef returns the declared base type reference, or nil.
// Enums never have one.
func (t *Type) BaseTypeRef() *load.TypeRef {
	if t.Kind == KindEnum {
		return nil
	}
	return t.def.BaseType
}

// CustomBase returns the explicit base type override, or nil.
func (t *Type) CustomBase() *load.TypeOverride {
	if t.def.Export == nil {
		return nil
	}
	return t.def.Export.BaseType
}

// OutputDir returns the directory the type's file is written to, relative
// to the output root. Empty means the output root itself.
func (t *Type) OutputDir() string {
	if t.def.Export == nil {
		return ""
	}
	return t.def.Export.OutputDir
}

// Dir returns the cleaned output directory ("." for the output root).
func (t *Type) Dir() string {
	return cleanDir(t.OutputDir())
}

// FileBase returns the output file name without the .ts extension.
func (t *Type) FileBase() string {
	return t.fileName(t.Name)
}

// FilePath returns the output file path relative to the output root.
// It is a pure function of the export configuration.
func (t *Type) FilePath() string {
	return path.Join(t.Dir(), t.FileBase()+".ts")
}

// genericParam reports whether name is one of the type's own generic
// parameter names.
func (t *Type) genericParam(name string) bool {
	for _, p := range t.GenericParams {
		if p == name {
			return true
		}
	}
	return false
}

// cleanDir normalizes a configured output directory to a POSIX relative
// path. Empty and absent directories mean the output root.
func cleanDir(dir string) string {
	dir = strings.ReplaceAll(dir, "\\", "/")
	cleaned := path.Clean("/" + dir)
	if cleaned == "/" {
		return "."
	}
	return cleaned[1:]
}
