// Package markdown classifies raw note lines into typed tokens and splits
// YAML frontmatter from the body. Pattern definitions live here so the
// entity codecs (tasks, dataview, kanban) only deal with extraction order.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the structural class of a single line.
type Kind int

const (
	KindBlank Kind = iota
	KindHeading
	KindCheckbox
	KindFrontmatterDelim
	KindFence
	KindText
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	checkboxRe = regexp.MustCompile(`^(\s*)[-*]\s+\[([ xX])\]\s+(.*)$`)
	fenceRe    = regexp.MustCompile("^\\s*(```|~~~)")
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
	blockIDRe  = regexp.MustCompile(`\^([A-Za-z0-9-]+)\s*$`)
)

// Line is one classified line of note text.
type Line struct {
	Kind   Kind
	Number int    // 1-based line number
	Raw    string // the original line, unmodified

	// Heading fields.
	Level   int
	Heading string

	// Checkbox fields.
	Indent  int // leading whitespace width, tabs counted as one
	Checked bool
	Body    string // text after the checkbox marker

	// Block anchor, if the line ends with ^id.
	BlockID string
}

// Classify tokenizes a single line. n is its 1-based line number.
func Classify(line string, n int) Line {
	tok := Line{Kind: KindText, Number: n, Raw: line}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		tok.Kind = KindBlank
		return tok
	}
	if trimmed == "---" {
		tok.Kind = KindFrontmatterDelim
		return tok
	}
	if fenceRe.MatchString(line) {
		tok.Kind = KindFence
		return tok
	}
	if m := headingRe.FindStringSubmatch(line); m != nil {
		tok.Kind = KindHeading
		tok.Level = len(m[1])
		tok.Heading = m[2]
		return tok
	}
	if m := checkboxRe.FindStringSubmatch(line); m != nil {
		tok.Kind = KindCheckbox
		tok.Indent = len(m[1])
		tok.Checked = m[2] == "x" || m[2] == "X"
		tok.Body = m[3]
	}
	if m := blockIDRe.FindStringSubmatch(line); m != nil {
		tok.BlockID = m[1]
	}
	return tok
}

// Lines splits text and classifies every line.
func Lines(text string) []Line {
	raw := strings.Split(text, "\n")
	out := make([]Line, len(raw))
	for i, l := range raw {
		out[i] = Classify(l, i+1)
	}
	return out
}

// Tags returns all inline #tags in text, in order of first appearance,
// deduplicated.
func Tags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		t := m[1]
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SplitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found, or the YAML is invalid,
// the entire content is body.
func SplitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// FrontmatterSpan returns the 0-based line indexes of the opening and closing
// --- delimiters, or ok=false when the file has no frontmatter block. Only a
// delimiter on the very first line opens a block.
func FrontmatterSpan(lines []string) (open, close int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, 0, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, 0, false
}

// FenceMask returns a bool per line marking lines inside fenced code spans,
// including the fence delimiters themselves. An unterminated fence runs to
// the end of the file.
func FenceMask(lines []string) []bool {
	mask := make([]bool, len(lines))
	var inFence bool
	var marker string
	for i, l := range lines {
		m := fenceRe.FindStringSubmatch(l)
		switch {
		case m != nil && !inFence:
			inFence = true
			marker = m[1]
			mask[i] = true
		case m != nil && inFence && m[1] == marker:
			inFence = false
			mask[i] = true
		default:
			mask[i] = inFence
		}
	}
	return mask
}
