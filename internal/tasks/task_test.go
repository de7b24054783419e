package tasks

import (
	"reflect"
	"testing"

	"github.com/starford/ansuz/internal/models"
)

func TestParse_Plain(t *testing.T) {
	task, ok := Parse("- [ ] Buy milk", 1, "a.md")
	if !ok {
		t.Fatal("expected a task")
	}
	if task.Content != "Buy milk" {
		t.Errorf("Content = %q", task.Content)
	}
	if task.Status != StatusIncomplete {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Priority != PriorityNormal {
		t.Errorf("Priority = %q", task.Priority)
	}
}

func TestParse_NotACheckbox(t *testing.T) {
	for _, line := range []string{"plain text", "# heading", "- bullet without box", ""} {
		if _, ok := Parse(line, 1, "a.md"); ok {
			t.Errorf("Parse(%q) should not yield a task", line)
		}
	}
}

func TestParse_FullMetadata(t *testing.T) {
	line := "- [x] Ship release ⏫ 🛫 2025-02-01 ⏳ 2025-02-10 📅 2025-02-20 ✅ 2025-02-19 ➕ 2025-01-15 🔁 every month"
	task, ok := Parse(line, 7, "rel.md")
	if !ok {
		t.Fatal("expected a task")
	}
	if task.Content != "Ship release" {
		t.Errorf("Content = %q", task.Content)
	}
	if task.Status != StatusCompleted {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Priority != PriorityHighest {
		t.Errorf("Priority = %q", task.Priority)
	}
	if task.StartDate.String() != "2025-02-01" {
		t.Errorf("StartDate = %q", task.StartDate)
	}
	if task.ScheduledDate.String() != "2025-02-10" {
		t.Errorf("ScheduledDate = %q", task.ScheduledDate)
	}
	if task.DueDate.String() != "2025-02-20" {
		t.Errorf("DueDate = %q", task.DueDate)
	}
	if task.DoneDate.String() != "2025-02-19" {
		t.Errorf("DoneDate = %q", task.DoneDate)
	}
	if task.CreatedDate.String() != "2025-01-15" {
		t.Errorf("CreatedDate = %q", task.CreatedDate)
	}
	if task.Recurrence != "every month" {
		t.Errorf("Recurrence = %q", task.Recurrence)
	}
	if task.LineNumber != 7 || task.SourcePath != "rel.md" {
		t.Errorf("position = %d %q", task.LineNumber, task.SourcePath)
	}
}

func TestParse_InvalidDateStaysInContent(t *testing.T) {
	task, ok := Parse("- [ ] Review 📅 2025-02-30", 1, "a.md")
	if !ok {
		t.Fatal("expected a task")
	}
	if !task.DueDate.IsZero() {
		t.Errorf("DueDate = %q, want unset", task.DueDate)
	}
	if task.Content != "Review 📅 2025-02-30" {
		t.Errorf("Content = %q, invalid token should remain", task.Content)
	}
}

func TestParse_TagsRecordedNotStripped(t *testing.T) {
	task, _ := Parse("- [ ] Call plumber #home #urgent 📅 2025-03-01", 1, "a.md")
	if task.Content != "Call plumber #home #urgent" {
		t.Errorf("Content = %q", task.Content)
	}
	if !reflect.DeepEqual(task.Tags, []string{"home", "urgent"}) {
		t.Errorf("Tags = %v", task.Tags)
	}
}

func TestFormat_FieldOrder(t *testing.T) {
	line := "- [ ] Buy milk ⏫ 📅 2025-03-01"
	task, _ := Parse(line, 1, "a.md")
	if got := Format(task); got != line {
		t.Errorf("Format = %q, want %q", got, line)
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	lines := []string{
		"- [ ] Plain",
		"- [x] Done ✅ 2025-01-02",
		"- [ ] Everything 🔼 🛫 2025-02-01 ⏳ 2025-02-02 📅 2025-02-03 🔁 every week",
		"- [ ] Tagged #a #b ⏬",
	}
	for _, line := range lines {
		t1, ok := Parse(line, 1, "x.md")
		if !ok {
			t.Fatalf("Parse(%q) failed", line)
		}
		t2, ok := Parse(Format(t1), 1, "x.md")
		if !ok {
			t.Fatalf("reparse of %q failed", Format(t1))
		}
		if !reflect.DeepEqual(t1, t2) {
			t.Errorf("round trip mismatch for %q:\n  first  %+v\n  second %+v", line, t1, t2)
		}
	}
}

func TestValidRecurrence(t *testing.T) {
	for _, good := range []string{"", "every day", "Every 2 weeks", " every month "} {
		if !ValidRecurrence(good) {
			t.Errorf("ValidRecurrence(%q) = false", good)
		}
	}
	for _, bad := range []string{"daily", "2 weeks", "whenever"} {
		if ValidRecurrence(bad) {
			t.Errorf("ValidRecurrence(%q) = true", bad)
		}
	}
}

func TestFilter_StatusAndPriority(t *testing.T) {
	ts := parseAll(t,
		"- [ ] open high 🔼",
		"- [x] closed",
		"- [ ] open normal",
	)

	got := Filter{Status: StatusIncomplete}.Apply(ts)
	if len(got) != 2 {
		t.Errorf("incomplete: got %d, want 2", len(got))
	}
	got = Filter{Priority: PriorityHigh}.Apply(ts)
	if len(got) != 1 || got[0].Content != "open high" {
		t.Errorf("priority filter: %+v", got)
	}
	got = Filter{Status: "all"}.Apply(ts)
	if len(got) != 3 {
		t.Errorf("all: got %d, want 3", len(got))
	}
}

func TestFilter_DatelessNeverMatchesRanges(t *testing.T) {
	ts := parseAll(t,
		"- [ ] dated 📅 2025-03-01",
		"- [ ] dateless",
	)
	before := mustDate(t, "2025-04-01")
	got := Filter{DueBefore: before}.Apply(ts)
	if len(got) != 1 || got[0].Content != "dated" {
		t.Errorf("DueBefore: %+v", got)
	}
}

func TestFilter_TagAndContent(t *testing.T) {
	ts := parseAll(t,
		"- [ ] water plants #garden",
		"- [ ] buy soil",
	)
	if got := (Filter{Tag: "#garden"}).Apply(ts); len(got) != 1 {
		t.Errorf("tag filter: %+v", got)
	}
	if got := (Filter{Content: "SOIL"}).Apply(ts); len(got) != 1 {
		t.Errorf("content filter should be case-insensitive: %+v", got)
	}
}

func TestFilter_HasRecurrence(t *testing.T) {
	ts := parseAll(t,
		"- [ ] recurring 🔁 every day",
		"- [ ] oneshot",
	)
	yes, no := true, false
	if got := (Filter{HasRecurrence: &yes}).Apply(ts); len(got) != 1 || got[0].Content != "recurring" {
		t.Errorf("HasRecurrence=true: %+v", got)
	}
	if got := (Filter{HasRecurrence: &no}).Apply(ts); len(got) != 1 || got[0].Content != "oneshot" {
		t.Errorf("HasRecurrence=false: %+v", got)
	}
}

func TestSort_DueDateDatelessLast(t *testing.T) {
	ts := parseAll(t,
		"- [ ] none",
		"- [ ] late 📅 2025-05-01",
		"- [ ] early 📅 2025-01-01",
	)

	asc := Sort(ts, SortByDueDate, false)
	if asc[0].Content != "early" || asc[1].Content != "late" || asc[2].Content != "none" {
		t.Errorf("asc order: %v", contents(asc))
	}

	desc := Sort(ts, SortByDueDate, true)
	if desc[0].Content != "late" || desc[1].Content != "early" || desc[2].Content != "none" {
		t.Errorf("desc order should still put dateless last: %v", contents(desc))
	}
}

func TestSort_Priority(t *testing.T) {
	ts := parseAll(t,
		"- [ ] low 🔽",
		"- [ ] top ⏫",
		"- [ ] mid",
	)
	got := Sort(ts, SortByPriority, false)
	if got[0].Content != "top" || got[1].Content != "mid" || got[2].Content != "low" {
		t.Errorf("priority order: %v", contents(got))
	}
}

func parseAll(t *testing.T, lines ...string) []Task {
	t.Helper()
	out := make([]Task, 0, len(lines))
	for i, l := range lines {
		task, ok := Parse(l, i+1, "test.md")
		if !ok {
			t.Fatalf("Parse(%q) failed", l)
		}
		out = append(out, *task)
	}
	return out
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func contents(ts []Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Content
	}
	return out
}
