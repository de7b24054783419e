// Package dataview extracts and mutates inline key-value fields in note
// text. Three syntaxes are recognized: a full line of `key:: value`, and
// bracketed `[key:: value]` or parenthesized `(key:: value)` spans embedded
// in surrounding text. Fenced code blocks are never scanned.
package dataview

import (
	"regexp"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/markdown"
)

// Syntax identifies which of the three field forms a match used.
type Syntax string

const (
	SyntaxFullLine Syntax = "full-line"
	SyntaxBracket  Syntax = "bracket"
	SyntaxParen    Syntax = "paren"
)

// ValueType is the inferred type of a field value.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeDate    ValueType = "date"
	TypeLink    ValueType = "link"
	TypeList    ValueType = "list"
)

// Field is one extracted inline field.
type Field struct {
	Key          string    `json:"key"`
	CanonicalKey string    `json:"canonical_key"`
	Value        string    `json:"value"`
	Type         ValueType `json:"value_type"`
	Syntax       Syntax    `json:"syntax"`
	LineNumber   int       `json:"line_number"`
	SourcePath   string    `json:"source_path,omitempty"`

	// span of the whole match within its line, for inline excision.
	start, end int
}

var (
	fullLineRe = regexp.MustCompile(`^\s*([^:\s\[\(][^:]*?)\s*::\s*(.*?)\s*$`)
	bracketRe  = regexp.MustCompile(`\[([^\[\]:]+?)\s*::\s*([^\[\]]*?)\]`)
	parenRe    = regexp.MustCompile(`\(([^():]+?)\s*::\s*([^()]*?)\)`)

	dateValRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	numberValRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	linkValRe   = regexp.MustCompile(`^\[\[[^\[\]]+\]\]$`)

	markupChars = strings.NewReplacer("*", "", "_", "", "`", "", "~", "")
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// CanonicalizeKey lowercases the key, strips markdown emphasis markers, and
// collapses every run of other characters to a single hyphen. The function
// is idempotent: canonicalizing a canonical key returns it unchanged.
func CanonicalizeKey(key string) string {
	k := markupChars.Replace(strings.ToLower(key))
	k = nonAlnumRe.ReplaceAllString(k, "-")
	return strings.Trim(k, "-")
}

// InferType classifies a raw value string. Checks run in a fixed order:
// boolean literal, calendar date, number, wikilink, comma-delimited list,
// and finally plain string.
func InferType(value string) ValueType {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "true", "false":
		return TypeBoolean
	}
	if dateValRe.MatchString(v) {
		return TypeDate
	}
	if numberValRe.MatchString(v) {
		return TypeNumber
	}
	if linkValRe.MatchString(v) {
		return TypeLink
	}
	if strings.Contains(v, ",") {
		return TypeList
	}
	return TypeString
}

// lineFields extracts every field on a single line. Inline bracket and
// paren matches take precedence; a line with no inline match that matches
// the full-line form entirely yields one full-line field.
func lineFields(line string, lineNumber int) []Field {
	var out []Field

	for _, m := range bracketRe.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, spanField(line, m, SyntaxBracket, lineNumber))
	}
	for _, m := range parenRe.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, spanField(line, m, SyntaxParen, lineNumber))
	}
	if len(out) > 0 {
		sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
		return out
	}

	if m := fullLineRe.FindStringSubmatch(line); m != nil {
		key, value := m[1], m[2]
		return []Field{{
			Key:          key,
			CanonicalKey: CanonicalizeKey(key),
			Value:        value,
			Type:         InferType(value),
			Syntax:       SyntaxFullLine,
			LineNumber:   lineNumber,
			start:        0,
			end:          len(line),
		}}
	}
	return nil
}

func spanField(line string, m []int, syntax Syntax, lineNumber int) Field {
	key := strings.TrimSpace(line[m[2]:m[3]])
	value := strings.TrimSpace(line[m[4]:m[5]])
	return Field{
		Key:          key,
		CanonicalKey: CanonicalizeKey(key),
		Value:        value,
		Type:         InferType(value),
		Syntax:       syntax,
		LineNumber:   lineNumber,
		start:        m[0],
		end:          m[1],
	}
}

// Extract returns every inline field in text, in document order. Lines
// inside fenced code blocks are skipped, as is the frontmatter block.
func Extract(text, sourcePath string) []Field {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	fenced := markdown.FenceMask(lines)
	fmOpen, fmClose, hasFM := markdown.FrontmatterSpan(lines)

	var out []Field
	for i, line := range lines {
		if fenced[i] {
			continue
		}
		if hasFM && i >= fmOpen && i <= fmClose {
			continue
		}
		for _, f := range lineFields(line, i+1) {
			f.SourcePath = sourcePath
			out = append(out, f)
		}
	}
	return out
}
