package gen

import "strings"

// Template identifiers, one per output shape.
const (
	TemplateClass                = "class"
	TemplateInterface            = "interface"
	TemplateEnum                 = "enum"
	TemplateEnumValue            = "enumValue"
	TemplateClassProperty        = "classProperty"
	TemplateClassPropertyDefault = "classPropertyDefault"
	TemplateInterfaceProperty    = "interfaceProperty"
	TemplateImport               = "import"
	TemplateIndexFile            = "indexFile"
	TemplateIndexExport          = "indexExport"
)

// Tag names resolved from Options instead of caller input.
const (
	tagTab   = "tab"
	tagQuote = "quote"
)

const tagDelimiter = '#'

// defaultTemplates holds the built-in template texts. Tags are names
// enclosed in a '#' pair; #tab# and #quote# resolve from Options.
var defaultTemplates = map[string]string{
	TemplateClass:                "#head##imports#export class #name##extends# {\n#members##body#}\n",
	TemplateInterface:            "#head##imports#export interface #name##extends# {\n#members##body#}\n",
	TemplateEnum:                 "export #const#enum #name# {\n#members#}\n",
	TemplateEnumValue:            "#tab##name# = #value#,\n",
	TemplateClassProperty:        "#tab##name#: #type#;\n",
	TemplateClassPropertyDefault: "#tab##name#: #type# = #default#;\n",
	TemplateInterfaceProperty:    "#tab##name##optional#: #type#;\n",
	TemplateImport:               "import { #type##alias# } from #quote##path##quote#;\n",
	TemplateIndexFile:            "#exports#",
	TemplateIndexExport:          "export * from #quote##path##quote#;\n",
}

// TemplateSet is an immutable named-template store configured by the
// run-wide formatting options. It is constructed once at startup and is
// safe for concurrent Fill calls.
type TemplateSet struct {
	templates map[string]string
	indent    string
	quote     string
}

// NewTemplateSet returns a template set holding the built-in templates,
// with the option-resolved tags bound to opts.
func NewTemplateSet(opts Options) *TemplateSet {
	ts := &TemplateSet{
		templates: make(map[string]string, len(defaultTemplates)),
		indent:    opts.Indent(),
		quote:     opts.Quote(),
	}
	for id, text := range defaultTemplates {
		ts.templates[id] = text
	}
	return ts
}

// Override replaces the text of one template, returning a new set.
// The receiver is never mutated.
func (ts *TemplateSet) Override(id, text string) *TemplateSet {
	out := &TemplateSet{
		templates: make(map[string]string, len(ts.templates)),
		indent:    ts.indent,
		quote:     ts.quote,
	}
	for k, v := range ts.templates {
		out.templates[k] = v
	}
	out.templates[id] = text
	return out
}

// Fill renders the identified template, substituting each #name# tag with
// the named value in a single pass. Text produced by a substitution is
// never rescanned, so values may safely contain tag delimiters. Tags with
// no matching value are left verbatim.
func (ts *TemplateSet) Fill(id string, values map[string]string) (string, error) {
	text, ok := ts.templates[id]
	if !ok {
		return "", NewGenerationError("", "", "unknown template "+id, nil)
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		open := strings.IndexByte(text, tagDelimiter)
		if open < 0 {
			b.WriteString(text)
			return b.String(), nil
		}
		end := strings.IndexByte(text[open+1:], tagDelimiter)
		if end < 0 {
			b.WriteString(text)
			return b.String(), nil
		}
		end += open + 1
		b.WriteString(text[:open])
		name := text[open+1 : end]
		if val, ok := ts.resolve(name, values); ok {
			b.WriteString(val)
			text = text[end+1:]
			continue
		}
		// Unknown tag: emit the opening delimiter literally and rescan
		// from the next character, in case of overlapping pairs.
		b.WriteByte(tagDelimiter)
		text = text[open+1:]
	}
}

func (ts *TemplateSet) resolve(name string, values map[string]string) (string, bool) {
	switch name {
	case tagTab:
		return ts.indent, true
	case tagQuote:
		return ts.quote, true
	}
	val, ok := values[name]
	return val, ok
}
