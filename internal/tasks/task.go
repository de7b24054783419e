// Package tasks parses and rewrites checkbox task lines carrying
// emoji-encoded metadata (due/scheduled/start/done/created dates, priority,
// recurrence), and provides vault-wide search and line-precise mutations.
package tasks

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
)

// Status is a task's completion state.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
)

// Priority levels, highest to lowest. PriorityNormal has no emoji marker.
type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityNormal  Priority = "normal"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

var priorityEmoji = map[Priority]string{
	PriorityHighest: "⏫",
	PriorityHigh:    "🔼",
	PriorityLow:     "🔽",
	PriorityLowest:  "⏬",
}

var emojiPriority = map[string]Priority{
	"⏫": PriorityHighest,
	"🔼": PriorityHigh,
	"🔽": PriorityLow,
	"⏬": PriorityLowest,
}

// priorityRank orders priorities for sorting: highest first.
var priorityRank = map[Priority]int{
	PriorityHighest: 0,
	PriorityHigh:    1,
	PriorityNormal:  2,
	PriorityLow:     3,
	PriorityLowest:  4,
}

// ValidPriority reports whether p names a known priority level.
func ValidPriority(p Priority) bool {
	_, ok := priorityRank[p]
	return ok
}

// Task is the structured form of a single checkbox task line.
type Task struct {
	Content       string      `json:"content"`
	Status        Status      `json:"status"`
	Priority      Priority    `json:"priority"`
	DueDate       models.Date `json:"due_date,omitempty"`
	ScheduledDate models.Date `json:"scheduled_date,omitempty"`
	StartDate     models.Date `json:"start_date,omitempty"`
	DoneDate      models.Date `json:"done_date,omitempty"`
	CreatedDate   models.Date `json:"created_date,omitempty"`
	Recurrence    string      `json:"recurrence,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	LineNumber    int         `json:"line_number"`
	SourcePath    string      `json:"source_path"`
}

// Date token patterns. Each matches an emoji marker followed by a candidate
// date; the codec strips the rightmost occurrence per marker.
var (
	doneRe       = regexp.MustCompile(`✅\s*(\d{4}-\d{2}-\d{2})`)
	dueRe        = regexp.MustCompile(`📅\s*(\d{4}-\d{2}-\d{2})`)
	scheduledRe  = regexp.MustCompile(`⏳\s*(\d{4}-\d{2}-\d{2})`)
	startRe      = regexp.MustCompile(`🛫\s*(\d{4}-\d{2}-\d{2})`)
	createdRe    = regexp.MustCompile(`➕\s*(\d{4}-\d{2}-\d{2})`)
	priorityRe   = regexp.MustCompile(`(⏫|🔼|🔽|⏬)`)
	recurrenceRe = regexp.MustCompile(`🔁\s*(.+)$`)
)

// stripRightmost removes the rightmost match of re from s and returns the
// captured group. When no match exists it returns s unchanged and ok=false.
// The span is excised in place; whitespace left dangling before it is trimmed.
func stripRightmost(s string, re *regexp.Regexp) (rest, captured string, ok bool) {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if idx == nil {
		return s, "", false
	}
	m := idx[len(idx)-1]
	captured = s[m[2]:m[3]]
	rest = strings.TrimRight(s[:m[0]], " \t") + s[m[1]:]
	return strings.TrimRight(rest, " \t"), captured, true
}

// stripDate excises the rightmost date token matching re and parses it.
// A token whose date fails validation is left in place untouched: the
// caller degrades gracefully instead of erroring (the token stays in the
// task's content).
func stripDate(s string, re *regexp.Regexp) (string, models.Date) {
	rest, captured, ok := stripRightmost(s, re)
	if !ok {
		return s, models.Date{}
	}
	d, err := models.ParseDate(captured)
	if err != nil {
		return s, models.Date{}
	}
	return rest, d
}

// Parse converts a checkbox task line into a Task. It returns (nil, false)
// when the line is not a checkbox item at all; the caller treats that as
// "not a task", never as an error.
//
// Metadata tokens are stripped from the content in a fixed precedence order:
// done, due, scheduled, start, created dates, then the priority emoji, then
// recurrence text. Inline #tags are recorded but remain part of the content,
// which keeps Format(Parse(line)) faithful for tagged tasks.
func Parse(line string, lineNumber int, sourcePath string) (*Task, bool) {
	tok := markdown.Classify(line, lineNumber)
	if tok.Kind != markdown.KindCheckbox {
		return nil, false
	}

	status := StatusIncomplete
	if tok.Checked {
		status = StatusCompleted
	}

	rest := strings.TrimSpace(tok.Body)
	t := &Task{
		Status:     status,
		Priority:   PriorityNormal,
		LineNumber: lineNumber,
		SourcePath: sourcePath,
	}

	rest, t.DoneDate = stripDate(rest, doneRe)
	rest, t.DueDate = stripDate(rest, dueRe)
	rest, t.ScheduledDate = stripDate(rest, scheduledRe)
	rest, t.StartDate = stripDate(rest, startRe)
	rest, t.CreatedDate = stripDate(rest, createdRe)

	if r, emoji, ok := stripRightmost(rest, priorityRe); ok {
		t.Priority = emojiPriority[emoji]
		rest = r
	}

	if r, text, ok := stripRightmost(rest, recurrenceRe); ok {
		t.Recurrence = strings.TrimSpace(text)
		rest = r
	}

	t.Content = strings.TrimSpace(rest)
	t.Tags = markdown.Tags(t.Content)
	return t, true
}

// Format renders a Task as a canonical task line. Metadata follows the
// content in a fixed order: priority, start, scheduled, due, done, created,
// recurrence. Round-trip equality with Parse is on fields, not bytes.
func Format(t *Task) string {
	checkbox := "- [ ]"
	if t.Status == StatusCompleted {
		checkbox = "- [x]"
	}

	parts := []string{t.Content}
	if emoji, ok := priorityEmoji[t.Priority]; ok {
		parts = append(parts, emoji)
	}
	if !t.StartDate.IsZero() {
		parts = append(parts, "🛫 "+t.StartDate.String())
	}
	if !t.ScheduledDate.IsZero() {
		parts = append(parts, "⏳ "+t.ScheduledDate.String())
	}
	if !t.DueDate.IsZero() {
		parts = append(parts, "📅 "+t.DueDate.String())
	}
	if !t.DoneDate.IsZero() {
		parts = append(parts, "✅ "+t.DoneDate.String())
	}
	if !t.CreatedDate.IsZero() {
		parts = append(parts, "➕ "+t.CreatedDate.String())
	}
	if t.Recurrence != "" {
		parts = append(parts, "🔁 "+t.Recurrence)
	}

	return checkbox + " " + strings.Join(parts, " ")
}

// ValidRecurrence reports whether text is acceptable recurrence input:
// empty (clearing) or starting with the literal word "every".
func ValidRecurrence(text string) bool {
	if text == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "every")
}
