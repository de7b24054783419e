package markdown

import "strings"

// NoteTitle picks the frontmatter title, falling back to the first level-1
// heading and then the file basename.
func NoteTitle(fm map[string]any, body, path string) string {
	if fm != nil {
		if t, ok := fm["title"].(string); ok && strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	}
	for _, tok := range Lines(body) {
		if tok.Kind == KindHeading && tok.Level == 1 {
			return tok.Heading
		}
	}
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".md")
}

// NoteTags merges frontmatter tags with inline #tags, frontmatter first,
// deduplicated in order of appearance. A single string value in the
// frontmatter tags field is accepted as a one-element list.
func NoteTags(fm map[string]any, body string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if fm != nil {
		switch v := fm["tags"].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case string:
			add(v)
		}
	}
	for _, t := range Tags(body) {
		add(t)
	}
	return out
}
