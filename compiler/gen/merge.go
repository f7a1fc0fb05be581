package gen

import (
	"os"
	"strings"
)

// Marker tags for regions preserved across regenerations. A region is
// delimited by a pair of single-line comments: //<NAME> and //</NAME>.
const (
	// TagCustomHead keeps hand-written code above the declaration.
	TagCustomHead = "custom-head"
	// TagCustomBody keeps hand-written code as the last element inside
	// the declaration body.
	TagCustomBody = "custom-body"
)

// FileReader reads a previously generated file. The os implementation is
// the default; tests substitute an in-memory one.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

type osReader struct{}

func (osReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Merger extracts custom-marked regions from previously generated files
// so regeneration never destroys manual edits. Extraction is best-effort:
// missing files and malformed markers yield empty regions, never errors.
type Merger struct {
	fs     FileReader
	indent string
	warn   func(*PreservationWarning)
}

// NewMerger returns a merger reading through the OS with the indentation
// unit taken from opts.
func NewMerger(opts Options) *Merger {
	return &Merger{fs: osReader{}, indent: opts.Indent()}
}

// WithReader sets the file reader used for prior output.
func (m *Merger) WithReader(fs FileReader) *Merger {
	if fs != nil {
		m.fs = fs
	}
	return m
}

// WithWarnFunc sets the sink for preservation warnings. Warnings are
// diagnostics only; extraction recovers by treating the region as empty.
func (m *Merger) WithWarnFunc(warn func(*PreservationWarning)) *Merger {
	m.warn = warn
	return m
}

// CustomHead returns the preserved head region of the file at path,
// re-wrapped in its markers at indent zero. Missing files and absent
// regions yield the empty string. A body region nested inside the head
// is excised here; it re-emits in the declaration body through
// CustomBody, so its content appears exactly once.
func (m *Merger) CustomHead(path string) string {
	head := m.ExtractRegion(path, 0, TagCustomHead, "")
	if head == "" {
		return ""
	}
	lines := strings.Split(head, "\n")
	start, end, found, _ := findRegion(lines, TagCustomBody, 0, len(lines))
	if !found {
		return head
	}
	kept := make([]string, 0, len(lines))
	kept = append(kept, lines[:start-1]...)
	kept = append(kept, lines[end+1:]...)
	empty := true
	openHead, closeHead := "//<"+TagCustomHead+">", "//</"+TagCustomHead+">"
	for _, line := range kept {
		switch strings.TrimSpace(line) {
		case "", openHead, closeHead:
		default:
			empty = false
		}
	}
	if empty {
		return ""
	}
	return strings.Join(kept, "\n")
}

// CustomBody returns the preserved body region of the file at path,
// re-indented to indentSize stops and re-wrapped in its markers.
func (m *Merger) CustomBody(path string, indentSize int) string {
	return m.ExtractRegion(path, indentSize, TagCustomHead, TagCustomBody)
}

// ExtractRegion reads the file at path, if it exists, and returns the text
// previously enclosed in the innerTag marker pair (outerTag when innerTag
// is empty), re-indented to indentSize stops and re-wrapped in the marker
// pair. The inner pair is searched inside an outerTag region first, then
// anywhere in the file. Empty content yields the empty string with no
// markers, so a fresh file gains no markers until a developer adds one.
func (m *Merger) ExtractRegion(path string, indentSize int, outerTag, innerTag string) string {
	tag := innerTag
	if tag == "" {
		tag = outerTag
	}
	data, err := m.fs.ReadFile(path)
	if err != nil {
		// Missing prior output is the steady state for first-time
		// generation.
		return ""
	}
	lines := strings.Split(string(data), "\n")
	start, end, found := -1, -1, false
	if innerTag != "" && innerTag != outerTag {
		outerStart, outerEnd, ok, malformed := findRegion(lines, outerTag, 0, len(lines))
		switch {
		case ok:
			start, end, found = findInner(lines, tag, outerStart, outerEnd)
		case malformed:
			m.warnf(path, outerTag, "opening marker has no matching closing marker")
		}
	}
	if !found {
		var malformed bool
		start, end, found, malformed = findRegion(lines, tag, 0, len(lines))
		if malformed {
			m.warnf(path, tag, "opening marker has no matching closing marker")
			return ""
		}
		if !found {
			return ""
		}
	}
	content := strings.Join(lines[start:end], "\n")
	if strings.TrimSpace(content) == "" {
		return ""
	}
	prefix := strings.Repeat(m.indent, indentSize)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("//<" + tag + ">\n")
	b.WriteString(reindent(content, prefix))
	b.WriteString("\n")
	b.WriteString(prefix)
	b.WriteString("//</" + tag + ">\n")
	return b.String()
}

func (m *Merger) warnf(path, tag, message string) {
	if m.warn != nil {
		m.warn(NewPreservationWarning(path, tag, message))
	}
}

// findRegion locates a marker pair within lines[from:to] and returns the
// half-open content range between the markers. malformed reports an
// opening marker without a matching closing marker.
func findRegion(lines []string, tag string, from, to int) (start, end int, found, malformed bool) {
	open := "//<" + tag + ">"
	closing := "//</" + tag + ">"
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) != open {
			continue
		}
		for j := i + 1; j < to; j++ {
			if strings.TrimSpace(lines[j]) == closing {
				return i + 1, j, true, false
			}
		}
		return 0, 0, false, true
	}
	return 0, 0, false, false
}

func findInner(lines []string, tag string, from, to int) (start, end int, found bool) {
	s, e, ok, _ := findRegion(lines, tag, from, to)
	return s, e, ok
}

// reindent strips the longest common whitespace prefix of the non-blank
// lines and re-prefixes every line with prefix, preserving relative
// nesting inside the region.
func reindent(content, prefix string) string {
	lines := strings.Split(content, "\n")
	common := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			common = lead
			first = false
			continue
		}
		common = commonPrefix(common, lead)
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = prefix + strings.TrimPrefix(line, common)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
