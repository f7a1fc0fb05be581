// Package load parses type-model documents into the descriptors consumed
// by the code generator. A document is the serialized output of a
// language-specific model extractor (reflection, attribute inspection, or
// a hand-written description) and is the only input the generator reads.
package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type kinds accepted in model documents.
const (
	KindClass     = "class"
	KindInterface = "interface"
	KindEnum      = "enum"
)

// Container shapes a type reference may carry.
const (
	ContainerNone = ""
	ContainerList = "list"
	ContainerMap  = "map"
)

// Document is the root of a type-model file.
type Document struct {
	// Types holds every type marked for export, in declaration order.
	Types []*TypeDescriptor `json:"types" yaml:"types"`
}

// TypeDescriptor describes one exportable type.
type TypeDescriptor struct {
	// Name is the qualified source name. Generic types may carry a
	// backtick arity suffix (e.g. "Response`1").
	Name string `json:"name" yaml:"name"`
	// Kind is one of "class", "interface" or "enum".
	Kind string `json:"kind" yaml:"kind"`
	// Arity is the number of generic parameters. Zero for non-generics.
	Arity int `json:"arity,omitempty" yaml:"arity,omitempty"`
	// GenericParams holds the generic parameter names, when Arity > 0.
	GenericParams []string `json:"genericParams,omitempty" yaml:"genericParams,omitempty"`
	// BaseType is the declared base type. Classes and interfaces only.
	BaseType *TypeRef `json:"baseType,omitempty" yaml:"baseType,omitempty"`
	// Members are the declared members, in declaration order.
	Members []*MemberDescriptor `json:"members,omitempty" yaml:"members,omitempty"`
	// Export carries the export configuration attached to the type.
	Export *ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`
}

// MemberDescriptor describes one field, property or enum value.
type MemberDescriptor struct {
	Name string `json:"name" yaml:"name"`
	// Type is the declared type reference. Nil for enum values.
	Type *TypeRef `json:"type,omitempty" yaml:"type,omitempty"`
	// Optional marks the member optional in the generated declaration.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Default is a TypeScript expression used as the initializer, verbatim.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// Ignore excludes the member from generation.
	Ignore bool `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	// Static and NonPublic members are never exported.
	Static    bool `json:"static,omitempty" yaml:"static,omitempty"`
	NonPublic bool `json:"nonPublic,omitempty" yaml:"nonPublic,omitempty"`
	// EnumValue is the integer value of an enum member.
	EnumValue int64 `json:"enumValue,omitempty" yaml:"enumValue,omitempty"`
	// Override replaces the resolved TypeScript type for this member.
	Override *TypeOverride `json:"override,omitempty" yaml:"override,omitempty"`
	// DefaultOutputDir hints where a referenced type that carries no
	// export directory of its own should be written.
	DefaultOutputDir string `json:"defaultOutputDir,omitempty" yaml:"defaultOutputDir,omitempty"`
}

// TypeRef is a reference to a type, possibly generic or container-shaped.
type TypeRef struct {
	Name string `json:"name" yaml:"name"`
	// Container is "", "list" or "map". For "list", Args[0] is the element
	// type. For "map", Args[0] is the key and Args[1] the value type.
	Container string `json:"container,omitempty" yaml:"container,omitempty"`
	// Args are generic or container arguments.
	Args []*TypeRef `json:"args,omitempty" yaml:"args,omitempty"`
}

// ExportConfig is the export attribute attached to a type.
type ExportConfig struct {
	// OutputDir is the directory the type's file is written to, relative
	// to the output root. Empty means the output root.
	OutputDir string `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	// BaseType overrides the declared base type in the extends clause.
	BaseType *TypeOverride `json:"baseType,omitempty" yaml:"baseType,omitempty"`
}

// TypeOverride replaces a resolved type name with an explicit one,
// optionally importing it from a hand-written module.
type TypeOverride struct {
	// Name is the TypeScript name used in the generated code.
	Name string `json:"name" yaml:"name"`
	// ImportPath, when set, emits an import for Name from this module.
	ImportPath string `json:"importPath,omitempty" yaml:"importPath,omitempty"`
	// Alias is the exported name inside the imported module when it
	// differs from Name; the import renders an aliasing clause.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// LoadFile reads and decodes a model document, dispatching on the file
// extension: .json, .yaml or .yml.
func LoadFile(path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read model %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return LoadJSON(buf)
	case ".yaml", ".yml":
		return LoadYAML(buf)
	default:
		return nil, fmt.Errorf("load: unsupported model format %q (want .json, .yaml or .yml)", ext)
	}
}

// LoadJSON decodes a JSON model document.
func LoadJSON(buf []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(buf, doc); err != nil {
		return nil, fmt.Errorf("load: decode json model: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadYAML decodes a YAML model document.
func LoadYAML(buf []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(buf, doc); err != nil {
		return nil, fmt.Errorf("load: decode yaml model: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks structural properties the generator relies on:
// non-empty names, known kinds and container shapes.
func (d *Document) Validate() error {
	for _, t := range d.Types {
		if t.Name == "" {
			return fmt.Errorf("load: type name cannot be empty")
		}
		switch t.Kind {
		case KindClass, KindInterface, KindEnum:
		default:
			return fmt.Errorf("load: type %q has unknown kind %q", t.Name, t.Kind)
		}
		if t.Kind == KindEnum && t.BaseType != nil {
			return fmt.Errorf("load: enum %q cannot declare a base type", t.Name)
		}
		if err := validateRef(t.Name, "baseType", t.BaseType); err != nil {
			return err
		}
		for _, m := range t.Members {
			if m.Name == "" {
				return fmt.Errorf("load: type %q has a member with an empty name", t.Name)
			}
			if err := validateRef(t.Name, m.Name, m.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRef(typeName, field string, ref *TypeRef) error {
	if ref == nil {
		return nil
	}
	switch ref.Container {
	case ContainerNone:
	case ContainerList:
		if len(ref.Args) != 1 {
			return fmt.Errorf("load: %s.%s: list reference needs exactly one argument", typeName, field)
		}
	case ContainerMap:
		if len(ref.Args) != 2 {
			return fmt.Errorf("load: %s.%s: map reference needs key and value arguments", typeName, field)
		}
	default:
		return fmt.Errorf("load: %s.%s: unknown container shape %q", typeName, field, ref.Container)
	}
	if ref.Container == ContainerNone && ref.Name == "" {
		return fmt.Errorf("load: %s.%s: type reference name cannot be empty", typeName, field)
	}
	for _, arg := range ref.Args {
		if err := validateRef(typeName, field, arg); err != nil {
			return err
		}
	}
	return nil
}
