package gen

import "strings"

// Options is the process-wide formatting configuration for a run. It is
// set once before generation begins and read by the template engine for
// the whole run.
type Options struct {
	// TabWidth is the number of spaces per indentation stop. Zero emits
	// a hard tab per stop.
	TabWidth int
	// SingleQuotes renders string literals and import specifiers with
	// single quotes instead of double quotes.
	SingleQuotes bool
	// ConstEnums renders enums with the "const" modifier.
	ConstEnums bool
}

// DefaultOptions returns the formatting defaults: four-space indentation,
// double quotes, plain enums.
func DefaultOptions() Options {
	return Options{TabWidth: 4}
}

// Indent returns the text of one indentation stop.
func (o Options) Indent() string {
	if o.TabWidth <= 0 {
		return "\t"
	}
	return strings.Repeat(" ", o.TabWidth)
}

// Quote returns the configured quote character.
func (o Options) Quote() string {
	if o.SingleQuotes {
		return "'"
	}
	return "\""
}

// Config holds the global configuration for a generation run.
type Config struct {
	// Target is the output root directory.
	Target string
	// Options control formatting of the rendered TypeScript.
	Options Options
	// IndexFile enables generation of an index barrel file re-exporting
	// every generated file.
	IndexFile bool
	// TypeNameConverter derives the TypeScript type name from the source
	// name. Defaults to Pascalize.
	TypeNameConverter Converter
	// MemberNameConverter derives property names. Defaults to Camelize.
	MemberNameConverter Converter
	// FileNameConverter derives output file base names (without the .ts
	// extension). Defaults to Camelize.
	FileNameConverter Converter
}

// typeName applies the configured type name converter.
func (c *Config) typeName(name string) string {
	if c.TypeNameConverter != nil {
		return c.TypeNameConverter(name)
	}
	return Pascalize(name)
}

// memberName applies the configured member name converter.
func (c *Config) memberName(name string) string {
	if c.MemberNameConverter != nil {
		return c.MemberNameConverter(name)
	}
	return Camelize(name)
}

// fileName applies the configured file name converter.
func (c *Config) fileName(name string) string {
	if c.FileNameConverter != nil {
		return c.FileNameConverter(name)
	}
	return Camelize(name)
}
