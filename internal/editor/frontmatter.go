package editor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/markdown"
)

// renderField marshals a single frontmatter field to YAML lines. Lists come
// out as a key line followed by indented items.
func renderField(key string, value any) ([]string, error) {
	raw, err := yaml.Marshal(map[string]any{key: value})
	if err != nil {
		return nil, fmt.Errorf("editor: render frontmatter field %q: %w", key, err)
	}
	rendered := strings.TrimSuffix(string(raw), "\n")
	return strings.Split(rendered, "\n"), nil
}

// fieldSpan locates an existing field inside the frontmatter block and
// returns its line range [start, end) including continuation lines
// (indented scalars, list items). Returns ok=false when the field is absent.
func fieldSpan(lines []string, open, close int, key string) (start, end int, ok bool) {
	prefix := key + ":"
	for i := open + 1; i < close; i++ {
		if !strings.HasPrefix(lines[i], prefix) {
			continue
		}
		end = i + 1
		for end < close {
			l := lines[end]
			if strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t") || strings.HasPrefix(l, "- ") {
				end++
				continue
			}
			break
		}
		return i, end, true
	}
	return 0, 0, false
}

// UpdateFrontmatterField sets key to value in the note's frontmatter,
// replacing the field in place when it exists, appending it inside the
// block otherwise, and synthesizing a frontmatter block at the top of the
// file when the note has none. Scalar and list values are supported.
func (e *Engine) UpdateFrontmatterField(path, key string, value any) error {
	lines, trailing, err := e.ReadLines(path)
	if err != nil {
		return err
	}
	field, err := renderField(key, value)
	if err != nil {
		return err
	}

	open, close, ok := markdown.FrontmatterSpan(lines)
	if !ok {
		// Synthesize a block at the top of the file.
		block := append([]string{"---"}, field...)
		block = append(block, "---")
		lines = append(block, lines...)
		return e.WriteLines(path, lines, trailing)
	}

	if start, end, found := fieldSpan(lines, open, close, key); found {
		replaced := make([]string, 0, len(lines)-(end-start)+len(field))
		replaced = append(replaced, lines[:start]...)
		replaced = append(replaced, field...)
		replaced = append(replaced, lines[end:]...)
		return e.WriteLines(path, replaced, trailing)
	}

	// Append inside the block, just before the closing delimiter.
	out := make([]string, 0, len(lines)+len(field))
	out = append(out, lines[:close]...)
	out = append(out, field...)
	out = append(out, lines[close:]...)
	return e.WriteLines(path, out, trailing)
}

// Tags returns the union of frontmatter tags and inline #tags for a note,
// frontmatter first, deduplicated in order of appearance.
func (e *Engine) Tags(path string) ([]string, error) {
	data, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}
	fm, body := markdown.SplitFrontmatter(data)
	return markdown.NoteTags(fm, body), nil
}

// AddTag adds tag to the note's frontmatter tags list. Adding a tag that is
// already present is a no-op: the file is not rewritten.
func (e *Engine) AddTag(path, tag string) ([]string, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	data, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}
	fm, _ := markdown.SplitFrontmatter(data)
	current := frontmatterTags(fm)
	for _, t := range current {
		if t == tag {
			return current, nil
		}
	}
	updated := append(current, tag)
	if err := e.UpdateFrontmatterField(path, "tags", updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveTag removes tag from the note's frontmatter tags list. Removing an
// absent tag is a no-op: the file is not rewritten and no error is returned.
func (e *Engine) RemoveTag(path, tag string) ([]string, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	data, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}
	fm, _ := markdown.SplitFrontmatter(data)
	current := frontmatterTags(fm)
	updated := current[:0:0]
	for _, t := range current {
		if t != tag {
			updated = append(updated, t)
		}
	}
	if len(updated) == len(current) {
		return current, nil
	}
	if updated == nil {
		updated = []string{}
	}
	if err := e.UpdateFrontmatterField(path, "tags", updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// frontmatterTags pulls the "tags" list out of parsed frontmatter. A single
// string value is accepted as a one-element list.
func frontmatterTags(fm map[string]any) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["tags"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return nil
}
