package kanban

import (
	"errors"
	"os"
	"path/filepath"
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
	return NewService(store), dir
}

func writeBoard(t *testing.T, dir, path, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, path), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readBoard(t *testing.T, dir, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestAddCard_End(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## To Do\n\n- [ ] existing\n\n## Done\n")

	card, err := svc.AddCard("b.md", "To Do", "new card", models.Date{}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if card.Text != "new card" {
		t.Errorf("Text = %q", card.Text)
	}
	want := "## To Do\n\n- [ ] existing\n- [ ] new card\n\n## Done\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAddCard_StartWithMetadata(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## To Do\n- [ ] existing\n")

	due, _ := models.ParseDate("2025-03-01")
	card, err := svc.AddCard("b.md", "To Do", "urgent", due, []string{"work"}, PositionStart)
	if err != nil {
		t.Fatal(err)
	}
	if card.DueDate.String() != "2025-03-01" {
		t.Errorf("DueDate = %q", card.DueDate)
	}
	want := "## To Do\n- [ ] urgent #work @{2025-03-01}\n- [ ] existing\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAddCard_MixedLevelColumns(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## A\n- [ ] a1\n### B\n- [ ] b1\n## C\n")

	if _, err := svc.AddCard("b.md", "A", "new card", models.Date{}, nil, ""); err != nil {
		t.Fatal(err)
	}
	want := "## A\n- [ ] a1\n- [ ] new card\n### B\n- [ ] b1\n## C\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	if err := svc.MoveCard("b.md", "b1", "B", "A", ""); err != nil {
		t.Fatal(err)
	}
	want = "## A\n- [ ] a1\n- [ ] new card\n- [ ] b1\n### B\n## C\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAddCard_MissingColumn(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## To Do\n")

	if _, err := svc.AddCard("b.md", "Nope", "x", models.Date{}, nil, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMoveCard_WithSubtasks(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md",
		"## To Do\n\n- [ ] big task\n  - [ ] step one\n  - [x] step two\n- [ ] other\n\n## Done\n\n- [x] old\n")

	if err := svc.MoveCard("b.md", "big task", "To Do", "Done", ""); err != nil {
		t.Fatal(err)
	}
	want := "## To Do\n\n- [ ] other\n\n## Done\n\n- [x] old\n- [ ] big task\n  - [ ] step one\n  - [x] step two\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestMoveCard_ToEarlierColumn(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## A\n- [ ] first\n## B\n- [ ] second\n")

	if err := svc.MoveCard("b.md", "second", "B", "A", ""); err != nil {
		t.Fatal(err)
	}
	want := "## A\n- [ ] first\n- [ ] second\n## B\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestMoveCard_MissingTargets(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## A\n- [ ] card\n## B\n")

	if err := svc.MoveCard("b.md", "card", "A", "Ghost", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing to column: %v", err)
	}
	if err := svc.MoveCard("b.md", "card", "Ghost", "B", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing from column: %v", err)
	}
	if err := svc.MoveCard("b.md", "ghost card", "A", "B", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing card: %v", err)
	}
}

func TestToggleCard(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## Col\n- [ ] task @{2025-03-01}\n  - [ ] subtask\n")

	card, err := svc.ToggleCard("b.md", "task @{2025-03-01}", "Col")
	if err != nil {
		t.Fatal(err)
	}
	if !card.Completed {
		t.Error("card should be completed")
	}
	want := "## Col\n- [x] task @{2025-03-01}\n  - [ ] subtask\n"
	if got := readBoard(t, dir, "b.md"); got != want {
		t.Errorf("file = %q, want %q (subtask and metadata must be untouched)", got, want)
	}

	card, err = svc.ToggleCard("b.md", "task @{2025-03-01}", "Col")
	if err != nil {
		t.Fatal(err)
	}
	if card.Completed {
		t.Error("card should be incomplete again")
	}
}

func TestStatistics(t *testing.T) {
	svc, dir := newTestService(t)
	writeBoard(t, dir, "b.md", "## A\n- [x] done\n- [ ] open\n## B\n- [x] also done\n")

	st, err := svc.Statistics("b.md")
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalCards != 3 || st.CompletedCards != 2 {
		t.Errorf("totals: %+v", st)
	}
	if st.Columns[0].CompletionRate != 0.5 {
		t.Errorf("column A rate = %v", st.Columns[0].CompletionRate)
	}
	if st.CompletionPct < 66 || st.CompletionPct > 67 {
		t.Errorf("CompletionPct = %v", st.CompletionPct)
	}
}
