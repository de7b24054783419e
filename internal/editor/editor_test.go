package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/storage"
)

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return New(store), dir
}

func writeNote(t *testing.T, dir, path, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, path), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readNote(t *testing.T, dir, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSplitJoinLines(t *testing.T) {
	cases := []struct {
		text     string
		lines    int
		trailing bool
	}{
		{"a\nb\n", 2, true},
		{"a\nb", 2, false},
		{"one", 1, false},
		{"\n", 1, false},
	}
	for _, c := range cases {
		lines, trailing := SplitLines(c.text)
		if len(lines) != c.lines || trailing != c.trailing {
			t.Errorf("SplitLines(%q) = (%d lines, %v)", c.text, len(lines), trailing)
		}
	}

	// Round trip.
	for _, text := range []string{"a\nb\n", "a\nb", "single"} {
		lines, trailing := SplitLines(text)
		if got := JoinLines(lines, trailing); got != text {
			t.Errorf("round trip %q -> %q", text, got)
		}
	}
}

func TestInsertAfterHeading(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "# Top\n\n## Notes\ntext\n")

	line, err := e.InsertAfterHeading("n.md", "Notes", "inserted")
	if err != nil {
		t.Fatal(err)
	}
	if line != 4 {
		t.Errorf("line = %d, want 4", line)
	}
	if readNote(t, dir, "n.md") != "# Top\n\n## Notes\ninserted\ntext\n" {
		t.Errorf("file = %q", readNote(t, dir, "n.md"))
	}
}

func TestInsertAfterHeading_Missing(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "# Top\n")

	if _, err := e.InsertAfterHeading("n.md", "Ghost", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertAfterBlock(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "alpha\nimportant line ^ref\nomega\n")

	line, err := e.InsertAfterBlock("n.md", "^ref", "inserted")
	if err != nil {
		t.Fatal(err)
	}
	if line != 3 {
		t.Errorf("line = %d, want 3", line)
	}

	// Caret is optional.
	if _, err := e.InsertAfterBlock("n.md", "ref", "again"); err != nil {
		t.Errorf("bare id should resolve: %v", err)
	}
}

func TestInsertAfterBlock_Missing(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "text\n")

	if _, err := e.InsertAfterBlock("n.md", "nope", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAppend(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "first\n")

	line, err := e.Append("n.md", "last")
	if err != nil {
		t.Fatal(err)
	}
	if line != 2 {
		t.Errorf("line = %d, want 2", line)
	}
	if readNote(t, dir, "n.md") != "first\nlast\n" {
		t.Errorf("file = %q", readNote(t, dir, "n.md"))
	}
}

func TestUpdateLine_OutOfRange(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "only\n")

	if err := e.UpdateLine("n.md", 5, "x"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := e.UpdateLine("n.md", 0, "x"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestReadLines_MissingFile(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, _, err := e.ReadLines("ghost.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateFrontmatterField_InPlace(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntitle: Old\nstatus: draft\n---\nbody\n")

	if err := e.UpdateFrontmatterField("n.md", "title", "New"); err != nil {
		t.Fatal(err)
	}
	if readNote(t, dir, "n.md") != "---\ntitle: New\nstatus: draft\n---\nbody\n" {
		t.Errorf("file = %q", readNote(t, dir, "n.md"))
	}
}

func TestUpdateFrontmatterField_AppendInsideBlock(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntitle: X\n---\nbody\n")

	if err := e.UpdateFrontmatterField("n.md", "status", "done"); err != nil {
		t.Fatal(err)
	}
	if readNote(t, dir, "n.md") != "---\ntitle: X\nstatus: done\n---\nbody\n" {
		t.Errorf("file = %q", readNote(t, dir, "n.md"))
	}
}

func TestUpdateFrontmatterField_Synthesize(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "body only\n")

	if err := e.UpdateFrontmatterField("n.md", "title", "Fresh"); err != nil {
		t.Fatal(err)
	}
	if readNote(t, dir, "n.md") != "---\ntitle: Fresh\n---\nbody only\n" {
		t.Errorf("file = %q", readNote(t, dir, "n.md"))
	}
}

func TestUpdateFrontmatterField_ListValue(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntitle: X\ntags:\n  - old\n---\nbody\n")

	if err := e.UpdateFrontmatterField("n.md", "tags", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	got := readNote(t, dir, "n.md")
	want := "---\ntitle: X\ntags:\n    - a\n    - b\n---\nbody\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAddTag(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntitle: X\n---\nbody\n")

	tags, err := e.AddTag("n.md", "#work")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "work" {
		t.Errorf("tags = %v", tags)
	}

	// Idempotent: second add leaves the file alone.
	before := readNote(t, dir, "n.md")
	tags, err = e.AddTag("n.md", "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 {
		t.Errorf("tags = %v", tags)
	}
	if readNote(t, dir, "n.md") != before {
		t.Error("duplicate add must not rewrite the file")
	}
}

func TestRemoveTag(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntags:\n  - a\n  - b\n---\nbody\n")

	tags, err := e.RemoveTag("n.md", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "b" {
		t.Errorf("tags = %v", tags)
	}

	// Removing an absent tag is a no-op.
	before := readNote(t, dir, "n.md")
	if _, err := e.RemoveTag("n.md", "ghost"); err != nil {
		t.Fatal(err)
	}
	if readNote(t, dir, "n.md") != before {
		t.Error("absent removal must not rewrite the file")
	}
}

func TestTags_MergesFrontmatterAndInline(t *testing.T) {
	e, dir := newTestEngine(t)
	writeNote(t, dir, "n.md", "---\ntags:\n  - fm\n---\nbody #inline #fm\n")

	tags, err := e.Tags("n.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != "fm" || tags[1] != "inline" {
		t.Errorf("tags = %v", tags)
	}
}
