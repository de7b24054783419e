package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

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

func writeFile(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, dir, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCreate_EndOfNewFile(t *testing.T) {
	svc, dir := newTestService(t)

	res, err := svc.Create(CreateRequest{
		Path:    "todo.md",
		Content: "First task",
		DueDate: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.LineNumber != 1 {
		t.Errorf("LineNumber = %d, want 1", res.LineNumber)
	}
	got := readFile(t, dir, "todo.md")
	if got != "- [ ] First task 📅 2025-03-01\n" {
		t.Errorf("file = %q", got)
	}
}

func TestCreate_AfterHeading(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "plan.md", "# Plan\n\n## Today\n\n## Later\n")

	res, err := svc.Create(CreateRequest{
		Path:     "plan.md",
		Content:  "Write report",
		InsertAt: InsertAfterHeading,
		Heading:  "Today",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.LineNumber != 4 {
		t.Errorf("LineNumber = %d, want 4", res.LineNumber)
	}
	lines := strings.Split(readFile(t, dir, "plan.md"), "\n")
	if lines[3] != "- [ ] Write report" {
		t.Errorf("line 4 = %q", lines[3])
	}
}

func TestCreate_MissingHeadingFails(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "plan.md", "# Plan\n")

	_, err := svc.Create(CreateRequest{
		Path:     "plan.md",
		Content:  "x",
		InsertAt: InsertAfterHeading,
		Heading:  "Nope",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Same for a file that does not exist yet.
	_, err = svc.Create(CreateRequest{
		Path:     "new.md",
		Content:  "x",
		InsertAt: InsertAfterHeading,
		Heading:  "Nope",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("new file err = %v, want ErrNotFound", err)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(CreateRequest{Path: "a.md"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("empty content: %v", err)
	}
	if _, err := svc.Create(CreateRequest{Path: "a.md", Content: "x", Priority: "urgent"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("bad priority: %v", err)
	}
	if _, err := svc.Create(CreateRequest{Path: "a.md", Content: "x", Recurrence: "daily"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("bad recurrence: %v", err)
	}
}

func TestToggle_CompleteAndBack(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "- [ ] Do it\n")

	res, err := svc.Toggle("t.md", 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.NewStatus != StatusCompleted {
		t.Errorf("NewStatus = %q", res.NewStatus)
	}
	if res.DoneDate.IsZero() {
		t.Error("DoneDate should be stamped")
	}
	if !strings.HasPrefix(res.UpdatedLine, "- [x] Do it ✅ ") {
		t.Errorf("UpdatedLine = %q", res.UpdatedLine)
	}

	res, err = svc.Toggle("t.md", 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.NewStatus != StatusIncomplete {
		t.Errorf("NewStatus = %q", res.NewStatus)
	}
	if !res.DoneDate.IsZero() {
		t.Error("toggling back should clear the done date")
	}
	if readFile(t, dir, "t.md") != "- [ ] Do it\n" {
		t.Errorf("file = %q", readFile(t, dir, "t.md"))
	}
}

func TestToggle_WithoutDoneDate(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "- [ ] Quiet\n")

	res, err := svc.Toggle("t.md", 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DoneDate.IsZero() {
		t.Error("DoneDate should stay unset")
	}
	if res.UpdatedLine != "- [x] Quiet" {
		t.Errorf("UpdatedLine = %q", res.UpdatedLine)
	}
}

func TestToggle_NonTaskLine(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "just text\n")

	if _, err := svc.Toggle("t.md", 1, true); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateMetadata(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "- [ ] Plan trip 📅 2025-03-01\n")

	p := PriorityHigh
	due := mustDate(t, "2025-04-01")
	res, err := svc.UpdateMetadata("t.md", 1, MetadataUpdate{Priority: &p, DueDate: &due})
	if err != nil {
		t.Fatal(err)
	}
	if res.UpdatedLine != "- [ ] Plan trip 🔼 📅 2025-04-01" {
		t.Errorf("UpdatedLine = %q", res.UpdatedLine)
	}
	if len(res.Changes) != 2 {
		t.Errorf("Changes = %v", res.Changes)
	}
}

func TestUpdateMetadata_ClearWithZero(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "- [ ] Recurring 📅 2025-03-01 🔁 every week\n")

	var clearDate models.Date
	empty := ""
	res, err := svc.UpdateMetadata("t.md", 1, MetadataUpdate{DueDate: &clearDate, Recurrence: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if res.UpdatedLine != "- [ ] Recurring" {
		t.Errorf("UpdatedLine = %q", res.UpdatedLine)
	}
}

func TestUpdateMetadata_NoFields(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "t.md", "- [ ] x\n")

	if _, err := svc.UpdateMetadata("t.md", 1, MetadataUpdate{}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearch_AcrossVault(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.md", "- [ ] Alpha 📅 2025-01-01\ntext\n- [x] Beta\n")
	writeFile(t, dir, "sub/b.md", "- [ ] Gamma 📅 2025-02-01\n")

	res, err := svc.Search(context.Background(), Filter{Status: StatusIncomplete}, SortByDueDate, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFound != 2 {
		t.Fatalf("TotalFound = %d, want 2", res.TotalFound)
	}
	if res.Tasks[0].Content != "Alpha" || res.Tasks[1].Content != "Gamma" {
		t.Errorf("order: %q, %q", res.Tasks[0].Content, res.Tasks[1].Content)
	}
}

func TestSearch_Truncation(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.md", "- [ ] one\n- [ ] two\n- [ ] three\n")

	res, err := svc.Search(context.Background(), Filter{}, "", false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tasks) != 2 || res.TotalFound != 3 || !res.Truncated {
		t.Errorf("got %d tasks, total %d, truncated %v", len(res.Tasks), res.TotalFound, res.Truncated)
	}
}

func TestScanVault_Cancelled(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.md", "- [ ] x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ScanVault(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestStatistics_Vault(t *testing.T) {
	svc, dir := newTestService(t)
	yesterday := models.Today().AddDays(-1).String()
	tomorrow := models.Today().AddDays(1).String()
	writeFile(t, dir, "a.md",
		"- [ ] overdue 📅 "+yesterday+"\n"+
			"- [ ] soon 📅 "+tomorrow+"\n"+
			"- [x] done ⏫\n"+
			"- [ ] repeat 🔁 every day\n")

	st, err := svc.Statistics(context.Background(), ScopeVault, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 4 || st.Incomplete != 3 || st.Completed != 1 {
		t.Errorf("counts: %+v", st)
	}
	if st.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", st.Overdue)
	}
	if st.Upcoming != 1 {
		t.Errorf("Upcoming = %d, want 1", st.Upcoming)
	}
	if st.Recurring != 1 {
		t.Errorf("Recurring = %d, want 1", st.Recurring)
	}
	if st.ByPriority[PriorityHighest] != 1 || st.ByPriority[PriorityNormal] != 3 {
		t.Errorf("ByPriority = %v", st.ByPriority)
	}
	if len(st.ByPriority) != 5 {
		t.Errorf("ByPriority should pre-seed all levels: %v", st.ByPriority)
	}
}

func TestStatistics_GroupByStatus(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.md", "- [ ] a\n- [ ] b\n- [x] c\n")

	st, err := svc.Statistics(context.Background(), ScopeVault, "", "status")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Grouped) != 2 {
		t.Fatalf("Grouped = %v", st.Grouped)
	}
	if st.Grouped[0].Key != "incomplete" || st.Grouped[0].Count != 2 {
		t.Errorf("first group = %+v", st.Grouped[0])
	}
}

func TestStatistics_NoteScopeRequiresPath(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Statistics(context.Background(), ScopeNote, "", ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
