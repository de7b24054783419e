package tasks

import (
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Filter describes conjunctive task search criteria. Zero-valued fields
// are inactive. Date-range filters require the task to have the relevant
// date set: dateless tasks never match before/after/within filters.
type Filter struct {
	Status              Status       // "", "incomplete", "completed", or "all"
	Priority            Priority     // "" for any
	DueBefore           models.Date
	DueAfter            models.Date
	DueWithinDays       *int
	ScheduledBefore     models.Date
	ScheduledAfter      models.Date
	ScheduledWithinDays *int
	ScheduledOn         models.Date
	HasRecurrence       *bool
	Tag                 string
	Content             string // substring match, case-insensitive
}

// Match reports whether t passes every active criterion.
func (f Filter) Match(t *Task) bool {
	if f.Status != "" && f.Status != "all" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}

	if !f.DueBefore.IsZero() && (t.DueDate.IsZero() || !t.DueDate.Before(f.DueBefore)) {
		return false
	}
	if !f.DueAfter.IsZero() && (t.DueDate.IsZero() || !t.DueDate.After(f.DueAfter)) {
		return false
	}
	if f.DueWithinDays != nil && !withinDays(t.DueDate, *f.DueWithinDays) {
		return false
	}

	if !f.ScheduledBefore.IsZero() && (t.ScheduledDate.IsZero() || !t.ScheduledDate.Before(f.ScheduledBefore)) {
		return false
	}
	if !f.ScheduledAfter.IsZero() && (t.ScheduledDate.IsZero() || !t.ScheduledDate.After(f.ScheduledAfter)) {
		return false
	}
	if f.ScheduledWithinDays != nil && !withinDays(t.ScheduledDate, *f.ScheduledWithinDays) {
		return false
	}
	if !f.ScheduledOn.IsZero() && (t.ScheduledDate.IsZero() || !t.ScheduledDate.Equal(f.ScheduledOn)) {
		return false
	}

	if f.HasRecurrence != nil && (t.Recurrence != "") != *f.HasRecurrence {
		return false
	}
	if f.Tag != "" && !containsTag(t.Tags, f.Tag) {
		return false
	}
	if f.Content != "" && !strings.Contains(strings.ToLower(t.Content), strings.ToLower(f.Content)) {
		return false
	}
	return true
}

// withinDays reports whether d falls in [today, today+n] inclusive.
func withinDays(d models.Date, n int) bool {
	if d.IsZero() {
		return false
	}
	today := models.Today()
	cutoff := today.AddDays(n)
	return !d.Before(today) && !d.After(cutoff)
}

func containsTag(tags []string, want string) bool {
	want = strings.TrimPrefix(want, "#")
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// Apply filters ts, preserving order.
func (f Filter) Apply(ts []Task) []Task {
	var out []Task
	for i := range ts {
		if f.Match(&ts[i]) {
			out = append(out, ts[i])
		}
	}
	return out
}

// Sort fields.
const (
	SortByDueDate    = "due_date"
	SortByPriority   = "priority"
	SortByFile       = "file"
	SortByLineNumber = "line_number"
)

// Sort orders ts by the given field. desc reverses the ordering of dated
// or ranked values, but tasks without a due date always sort after dated
// ones when sorting by due date, regardless of direction.
func Sort(ts []Task, by string, desc bool) []Task {
	out := make([]Task, len(ts))
	copy(out, ts)

	switch by {
	case SortByDueDate:
		dated := out[:0:0]
		var dateless []Task
		for _, t := range out {
			if t.DueDate.IsZero() {
				dateless = append(dateless, t)
			} else {
				dated = append(dated, t)
			}
		}
		sort.SliceStable(dated, func(i, j int) bool {
			if desc {
				return dated[j].DueDate.Before(dated[i].DueDate)
			}
			return dated[i].DueDate.Before(dated[j].DueDate)
		})
		return append(dated, dateless...)

	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := priorityRank[out[i].Priority], priorityRank[out[j].Priority]
			if desc {
				return rj < ri
			}
			return ri < rj
		})

	case SortByFile:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[j].SourcePath < out[i].SourcePath
			}
			return out[i].SourcePath < out[j].SourcePath
		})

	case SortByLineNumber:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if desc {
				a, b = b, a
			}
			if a.SourcePath != b.SourcePath {
				return a.SourcePath < b.SourcePath
			}
			return a.LineNumber < b.LineNumber
		})
	}
	return out
}
