// Package links extracts wikilinks and markdown links from note text and
// builds the vault-wide link graph with its derived views: backlinks,
// orphans, hubs, broken links, and bounded-depth connection neighborhoods.
package links

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
)

var (
	wikilinkRe = regexp.MustCompile(`(!?)\[\[([^\[\]]+?)\]\]`)
	mdLinkRe   = regexp.MustCompile(`(!?)\[[^\]]*\]\(([^)\s]+)\)`)
)

// RawLink is one link occurrence before target resolution.
type RawLink struct {
	Target string
	Kind   models.LinkKind
}

// Extract returns every link in text, in document order. Wikilink targets
// drop the alias (after |) and any heading or block fragment. Markdown
// links count only when their target is a relative path to a note file; a
// leading ! on either syntax marks an embed.
func Extract(text string) []RawLink {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	fenced := markdown.FenceMask(lines)

	var out []RawLink
	for i, line := range lines {
		if fenced[i] {
			continue
		}
		for _, m := range wikilinkRe.FindAllStringSubmatch(line, -1) {
			target := wikilinkTarget(m[2])
			if target == "" {
				continue
			}
			kind := models.LinkWikilink
			if m[1] == "!" {
				kind = models.LinkEmbed
			}
			out = append(out, RawLink{Target: target, Kind: kind})
		}
		for _, m := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			target := m[2]
			if !strings.HasSuffix(target, ".md") || strings.Contains(target, "://") {
				continue
			}
			kind := models.LinkMarkdown
			if m[1] == "!" {
				kind = models.LinkEmbed
			}
			out = append(out, RawLink{Target: target, Kind: kind})
		}
	}
	return out
}

// wikilinkTarget strips the display alias and heading/block fragments from
// the inside of a wikilink.
func wikilinkTarget(inner string) string {
	if i := strings.IndexByte(inner, '|'); i >= 0 {
		inner = inner[:i]
	}
	if i := strings.IndexByte(inner, '#'); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSpace(inner)
}

// Resolver maps link targets to existing vault note paths. Matching is
// case-sensitive, by relative path or bare basename, with or without the
// .md extension.
type Resolver struct {
	byPath     map[string]string
	byBasename map[string]string
}

// NewResolver indexes the given vault-relative note paths.
func NewResolver(paths []string) *Resolver {
	r := &Resolver{
		byPath:     make(map[string]string, len(paths)*2),
		byBasename: make(map[string]string, len(paths)*2),
	}
	for _, p := range paths {
		r.byPath[p] = p
		r.byPath[strings.TrimSuffix(p, ".md")] = p

		base := p
		if i := strings.LastIndexByte(p, '/'); i >= 0 {
			base = p[i+1:]
		}
		if _, taken := r.byBasename[base]; !taken {
			r.byBasename[base] = p
		}
		trimmed := strings.TrimSuffix(base, ".md")
		if _, taken := r.byBasename[trimmed]; !taken {
			r.byBasename[trimmed] = p
		}
	}
	return r
}

// Resolve maps a raw link target to a note path. ok=false marks a broken
// target.
func (r *Resolver) Resolve(target string) (string, bool) {
	if p, ok := r.byPath[target]; ok {
		return p, true
	}
	if p, ok := r.byBasename[target]; ok {
		return p, true
	}
	return "", false
}
