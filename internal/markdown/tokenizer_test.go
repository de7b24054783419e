package markdown

import (
	"reflect"
	"testing"
)

func TestClassify_Kinds(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{"", KindBlank},
		{"   ", KindBlank},
		{"---", KindFrontmatterDelim},
		{"```go", KindFence},
		{"~~~", KindFence},
		{"# Title", KindHeading},
		{"### Sub", KindHeading},
		{"- [ ] task", KindCheckbox},
		{"* [x] done", KindCheckbox},
		{"plain text", KindText},
		{"#not-a-heading-without-space? no, tag", KindText},
	}
	for _, c := range cases {
		got := Classify(c.line, 1)
		if got.Kind != c.kind {
			t.Errorf("Classify(%q).Kind = %v, want %v", c.line, got.Kind, c.kind)
		}
	}
}

func TestClassify_HeadingFields(t *testing.T) {
	tok := Classify("## Projects  ", 3)
	if tok.Level != 2 {
		t.Errorf("Level = %d, want 2", tok.Level)
	}
	if tok.Heading != "Projects" {
		t.Errorf("Heading = %q, want %q", tok.Heading, "Projects")
	}
	if tok.Number != 3 {
		t.Errorf("Number = %d, want 3", tok.Number)
	}
}

func TestClassify_CheckboxFields(t *testing.T) {
	tok := Classify("  - [X] Buy milk", 1)
	if tok.Kind != KindCheckbox {
		t.Fatalf("Kind = %v, want KindCheckbox", tok.Kind)
	}
	if tok.Indent != 2 {
		t.Errorf("Indent = %d, want 2", tok.Indent)
	}
	if !tok.Checked {
		t.Error("Checked = false, want true")
	}
	if tok.Body != "Buy milk" {
		t.Errorf("Body = %q, want %q", tok.Body, "Buy milk")
	}
}

func TestClassify_BlockID(t *testing.T) {
	tok := Classify("Some important line ^ref-1", 1)
	if tok.BlockID != "ref-1" {
		t.Errorf("BlockID = %q, want %q", tok.BlockID, "ref-1")
	}
	if Classify("no anchor here", 1).BlockID != "" {
		t.Error("expected empty BlockID")
	}
}

func TestTags(t *testing.T) {
	got := Tags("text #work more #home and #work again")
	want := []string{"work", "home"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestTags_NoMidwordMatch(t *testing.T) {
	if got := Tags("color#hex is not a tag"); got != nil {
		t.Errorf("Tags = %v, want nil", got)
	}
}

func TestSplitFrontmatter(t *testing.T) {
	data := []byte("---\ntitle: Hello\ntags:\n  - a\n---\n\nBody text\n")
	fm, body := SplitFrontmatter(data)
	if fm["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", fm["title"])
	}
	if body != "Body text\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontmatter_NoBlock(t *testing.T) {
	fm, body := SplitFrontmatter([]byte("just body\n"))
	if fm != nil {
		t.Errorf("fm = %v, want nil", fm)
	}
	if body != "just body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontmatter_Unclosed(t *testing.T) {
	data := []byte("---\ntitle: x\nno closing delim\n")
	fm, body := SplitFrontmatter(data)
	if fm != nil {
		t.Errorf("fm = %v, want nil", fm)
	}
	if body != string(data) {
		t.Errorf("body = %q", body)
	}
}

func TestFrontmatterSpan(t *testing.T) {
	lines := []string{"---", "title: x", "---", "body"}
	open, close, ok := FrontmatterSpan(lines)
	if !ok || open != 0 || close != 2 {
		t.Errorf("FrontmatterSpan = (%d, %d, %v), want (0, 2, true)", open, close, ok)
	}

	if _, _, ok := FrontmatterSpan([]string{"body", "---", "---"}); ok {
		t.Error("delimiter not on first line should not open a block")
	}
}

func TestFenceMask(t *testing.T) {
	lines := []string{"before", "```", "code:: here", "```", "after"}
	mask := FenceMask(lines)
	want := []bool{false, true, true, true, false}
	if !reflect.DeepEqual(mask, want) {
		t.Errorf("FenceMask = %v, want %v", mask, want)
	}
}

func TestFenceMask_Unterminated(t *testing.T) {
	mask := FenceMask([]string{"a", "```", "b", "c"})
	want := []bool{false, true, true, true}
	if !reflect.DeepEqual(mask, want) {
		t.Errorf("FenceMask = %v, want %v", mask, want)
	}
}

func TestNoteTitle(t *testing.T) {
	if got := NoteTitle(map[string]any{"title": "From FM"}, "# H1\n", "a/b.md"); got != "From FM" {
		t.Errorf("title = %q, want From FM", got)
	}
	if got := NoteTitle(nil, "intro\n# First Heading\n", "a/b.md"); got != "First Heading" {
		t.Errorf("title = %q, want First Heading", got)
	}
	if got := NoteTitle(nil, "no headings", "a/b.md"); got != "b" {
		t.Errorf("title = %q, want b", got)
	}
}

func TestNoteTags_MergesFrontmatterAndInline(t *testing.T) {
	fm := map[string]any{"tags": []any{"alpha", "beta"}}
	got := NoteTags(fm, "body with #beta and #gamma")
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NoteTags = %v, want %v", got, want)
	}
}
