package links

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

func TestExtract_Wikilinks(t *testing.T) {
	raw := Extract("see [[Other Note]] and [[folder/deep|alias]] plus [[Topic#Section]]\n")
	want := []RawLink{
		{Target: "Other Note", Kind: models.LinkWikilink},
		{Target: "folder/deep", Kind: models.LinkWikilink},
		{Target: "Topic", Kind: models.LinkWikilink},
	}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("Extract = %+v, want %+v", raw, want)
	}
}

func TestExtract_Embeds(t *testing.T) {
	raw := Extract("![[embedded]] and ![inline](img/pic.md)\n")
	if len(raw) != 2 {
		t.Fatalf("got %d links: %+v", len(raw), raw)
	}
	if raw[0].Kind != models.LinkEmbed || raw[1].Kind != models.LinkEmbed {
		t.Errorf("kinds = %v, %v", raw[0].Kind, raw[1].Kind)
	}
}

func TestExtract_MarkdownLinks(t *testing.T) {
	raw := Extract("[note](other.md) [site](https://example.com) [img](pic.png)\n")
	if len(raw) != 1 || raw[0].Target != "other.md" || raw[0].Kind != models.LinkMarkdown {
		t.Errorf("Extract = %+v", raw)
	}
}

func TestExtract_SkipsFences(t *testing.T) {
	raw := Extract("```\n[[not a link]]\n```\n[[real]]\n")
	if len(raw) != 1 || raw[0].Target != "real" {
		t.Errorf("Extract = %+v", raw)
	}
}

func TestResolver(t *testing.T) {
	r := NewResolver([]string{"a.md", "sub/b.md", "dup.md", "other/dup.md"})

	cases := map[string]string{
		"a":        "a.md",
		"a.md":     "a.md",
		"sub/b":    "sub/b.md",
		"sub/b.md": "sub/b.md",
		"b":        "sub/b.md",
		"dup":      "dup.md", // first registration wins
	}
	for target, want := range cases {
		got, ok := r.Resolve(target)
		if !ok || got != want {
			t.Errorf("Resolve(%q) = (%q, %v), want %q", target, got, ok, want)
		}
	}

	if _, ok := r.Resolve("ghost"); ok {
		t.Error("ghost should not resolve")
	}
	if _, ok := r.Resolve("A"); ok {
		t.Error("matching is case-sensitive")
	}
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger), dir
}

func writeNote(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildGraph(t *testing.T, svc *Service) *Graph {
	t.Helper()
	g, err := svc.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuild_BacklinksAreInvertedOutlinks(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[b]]\n")
	writeNote(t, dir, "b.md", "no links\n")

	g := buildGraph(t, svc)
	out := g.Outlinks("a.md")
	if len(out) != 1 || out[0].Target != "b.md" || !out[0].Resolved {
		t.Fatalf("Outlinks = %+v", out)
	}
	in := g.Backlinks("b.md")
	if len(in) != 1 || in[0].Source != "a.md" {
		t.Fatalf("Backlinks = %+v", in)
	}
}

func TestBuild_BrokenLink(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[missing]]\n")

	g := buildGraph(t, svc)
	broken := g.Broken()
	if len(broken) != 1 || broken[0].Target != "missing" || broken[0].Resolved {
		t.Errorf("Broken = %+v", broken)
	}
	if len(g.Backlinks("missing")) != 0 {
		t.Error("broken targets must not get backlink entries")
	}
	if !reflect.DeepEqual(g.Missing, []string{"missing"}) {
		t.Errorf("Missing = %v, broken target should be a missing node", g.Missing)
	}
}

func TestBuild_MissingNodesDeduplicated(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[ghost]] [[zebra]]\n")
	writeNote(t, dir, "b.md", "[[ghost]]\n")

	g := buildGraph(t, svc)
	if !reflect.DeepEqual(g.Missing, []string{"ghost", "zebra"}) {
		t.Errorf("Missing = %v, want deduplicated sorted targets", g.Missing)
	}
	if got := g.Orphans(); len(got) != 0 {
		t.Errorf("Orphans = %v, missing nodes must not count as orphans", got)
	}
	if h := g.Health(); h.TotalNotes != 2 {
		t.Errorf("TotalNotes = %d, missing nodes must not count as notes", h.TotalNotes)
	}
}

func TestBuild_SelfLoopExcluded(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[a]]\n")

	g := buildGraph(t, svc)
	if len(g.Edges) != 0 {
		t.Errorf("Edges = %+v, self-loop should be dropped", g.Edges)
	}
}

func TestOrphans(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "linked.md", "[[target]]\n")
	writeNote(t, dir, "target.md", "x\n")
	writeNote(t, dir, "lonely.md", "x\n")

	g := buildGraph(t, svc)
	if got := g.Orphans(); !reflect.DeepEqual(got, []string{"lonely.md"}) {
		t.Errorf("Orphans = %v", got)
	}
}

func TestHubs(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "hub.md", "[[a]] [[b]] [[c]]\n")
	writeNote(t, dir, "a.md", "x\n")
	writeNote(t, dir, "b.md", "x\n")
	writeNote(t, dir, "c.md", "x\n")

	g := buildGraph(t, svc)
	hubs := g.Hubs(3)
	if len(hubs) != 1 || hubs[0].Path != "hub.md" || hubs[0].Outlinks != 3 {
		t.Errorf("Hubs = %+v", hubs)
	}
	if got := g.Hubs(0); len(got) != 0 {
		t.Errorf("default threshold of %d should exclude a 3-link note: %+v", DefaultHubThreshold, got)
	}
}

func TestHealth(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[b]] [[ghost]]\n")
	writeNote(t, dir, "b.md", "x\n")

	g := buildGraph(t, svc)
	h := g.Health()
	if h.TotalNotes != 2 || h.TotalLinks != 2 {
		t.Errorf("totals: %+v", h)
	}
	if len(h.BrokenLinks) != 1 || h.BrokenLinks[0].Target != "ghost" {
		t.Errorf("BrokenLinks = %+v", h.BrokenLinks)
	}
	if h.AvgLinksPer != 1.0 {
		t.Errorf("AvgLinksPer = %v", h.AvgLinksPer)
	}
}

func TestConnections_DepthAndDirections(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "[[b]]\n")
	writeNote(t, dir, "b.md", "[[c]]\n")
	writeNote(t, dir, "c.md", "x\n")
	writeNote(t, dir, "d.md", "[[a]]\n")

	g := buildGraph(t, svc)

	conns, err := g.Connections("a.md", 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []Connection{{Path: "b.md", Depth: 1}, {Path: "d.md", Depth: 1}}
	if !reflect.DeepEqual(conns, want) {
		t.Errorf("depth 1 = %+v, want %+v", conns, want)
	}

	conns, err = g.Connections("a.md", 2)
	if err != nil {
		t.Fatal(err)
	}
	want = []Connection{
		{Path: "b.md", Depth: 1},
		{Path: "d.md", Depth: 1},
		{Path: "c.md", Depth: 2},
	}
	if !reflect.DeepEqual(conns, want) {
		t.Errorf("depth 2 = %+v, want %+v", conns, want)
	}
}

func TestConnections_UnknownStart(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "a.md", "x\n")

	g := buildGraph(t, svc)
	if _, err := g.Connections("ghost.md", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
