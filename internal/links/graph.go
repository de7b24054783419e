package links

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Graph is the directed link graph of a vault. The node set is Notes (the
// existing note paths) plus Missing (referenced targets that resolve to no
// note, deduplicated and sorted). Missing nodes carry no outgoing edges and
// never count toward orphan or health statistics.
type Graph struct {
	Notes   []string      `json:"notes"`
	Missing []string      `json:"missing_notes"`
	Edges   []models.Link `json:"edges"`

	out map[string][]models.Link
	in  map[string][]models.Link
}

// Service builds link graphs over a vault.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewService creates a link service over the given vault.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Build scans every note once and assembles the full graph. The backlink
// index is the inversion of the outgoing edge set, not a second pass.
// Unreadable files are skipped with a warning; cancellation aborts between
// files.
func (s *Service) Build(ctx context.Context) (*Graph, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(metas))
	for i, m := range metas {
		paths[i] = m.Path
	}
	resolver := NewResolver(paths)

	g := &Graph{
		Notes:   paths,
		Missing: []string{},
		out:     make(map[string][]models.Link, len(paths)),
		in:      make(map[string][]models.Link),
	}
	missing := map[string]bool{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.store.Read(p)
		if err != nil {
			s.logger.Warn("graph build: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		for _, raw := range Extract(string(data)) {
			edge := models.Link{Source: p, Target: raw.Target, Kind: raw.Kind}
			if resolved, ok := resolver.Resolve(raw.Target); ok {
				edge.Target = resolved
				edge.Resolved = true
			}
			if edge.Resolved && edge.Target == p {
				continue // self-loop
			}
			g.Edges = append(g.Edges, edge)
			g.out[p] = append(g.out[p], edge)
			if edge.Resolved {
				g.in[edge.Target] = append(g.in[edge.Target], edge)
			} else {
				missing[edge.Target] = true
			}
		}
	}
	for target := range missing {
		g.Missing = append(g.Missing, target)
	}
	sort.Strings(g.Missing)
	return g, nil
}

// Outlinks returns the outgoing edges of a note.
func (g *Graph) Outlinks(path string) []models.Link {
	return g.out[path]
}

// Backlinks returns the edges pointing at a note.
func (g *Graph) Backlinks(path string) []models.Link {
	return g.in[path]
}

// Broken returns every edge whose target resolves to no existing note.
func (g *Graph) Broken() []models.Link {
	var out []models.Link
	for _, e := range g.Edges {
		if !e.Resolved {
			out = append(out, e)
		}
	}
	return out
}

// Orphans returns notes with no incoming and no outgoing links, sorted.
func (g *Graph) Orphans() []string {
	var out []string
	for _, p := range g.Notes {
		if len(g.out[p]) == 0 && len(g.in[p]) == 0 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Hub pairs a note with its outgoing link count.
type Hub struct {
	Path     string `json:"path"`
	Outlinks int    `json:"outgoing_links"`
}

// DefaultHubThreshold is the outgoing-link count that marks a note as a
// hub when the caller supplies none.
const DefaultHubThreshold = 5

// Hubs returns notes whose out-degree meets threshold, most linked first.
func (g *Graph) Hubs(threshold int) []Hub {
	if threshold <= 0 {
		threshold = DefaultHubThreshold
	}
	var out []Hub
	for _, p := range g.Notes {
		if n := len(g.out[p]); n >= threshold {
			out = append(out, Hub{Path: p, Outlinks: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Outlinks != out[j].Outlinks {
			return out[i].Outlinks > out[j].Outlinks
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Health summarizes vault-wide link integrity.
type Health struct {
	TotalNotes  int           `json:"total_notes"`
	TotalLinks  int           `json:"total_links"`
	BrokenLinks []models.Link `json:"broken_links"`
	OrphanCount int           `json:"orphan_count"`
	NoInlinks   int           `json:"notes_without_inlinks"`
	NoOutlinks  int           `json:"notes_without_outlinks"`
	AvgLinksPer float64       `json:"average_links_per_note"`
}

// Health computes the integrity summary for the graph.
func (g *Graph) Health() *Health {
	h := &Health{
		TotalNotes:  len(g.Notes),
		TotalLinks:  len(g.Edges),
		BrokenLinks: g.Broken(),
		OrphanCount: len(g.Orphans()),
	}
	if h.BrokenLinks == nil {
		h.BrokenLinks = []models.Link{}
	}
	for _, p := range g.Notes {
		if len(g.in[p]) == 0 {
			h.NoInlinks++
		}
		if len(g.out[p]) == 0 {
			h.NoOutlinks++
		}
	}
	if h.TotalNotes > 0 {
		h.AvgLinksPer = float64(h.TotalLinks) / float64(h.TotalNotes)
	}
	return h
}

// Connection is a note discovered by a neighborhood expansion, labeled
// with the BFS layer at which it was first reached.
type Connection struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// Connections expands breadth-first from start along both outgoing and
// incoming resolved edges, up to depth layers (clamped to 1..3). Each
// reachable note keeps its minimum depth; start itself is excluded. An
// unknown start note is apperr.ErrNotFound.
func (g *Graph) Connections(start string, depth int) ([]Connection, error) {
	known := false
	for _, p := range g.Notes {
		if p == start {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("links: note %s: %w", start, apperr.ErrNotFound)
	}
	if depth < 1 {
		depth = 1
	}
	if depth > 3 {
		depth = 3
	}

	visited := map[string]int{start: 0}
	frontier := []string{start}
	for d := 1; d <= depth; d++ {
		var next []string
		for _, p := range frontier {
			for _, e := range g.out[p] {
				if !e.Resolved {
					continue
				}
				if _, seen := visited[e.Target]; !seen {
					visited[e.Target] = d
					next = append(next, e.Target)
				}
			}
			for _, e := range g.in[p] {
				if _, seen := visited[e.Source]; !seen {
					visited[e.Source] = d
					next = append(next, e.Source)
				}
			}
		}
		frontier = next
	}

	out := make([]Connection, 0, len(visited)-1)
	for p, d := range visited {
		if p == start {
			continue
		}
		out = append(out, Connection{Path: p, Depth: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}
