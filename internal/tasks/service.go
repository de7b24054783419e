package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/editor"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Service exposes task operations over a vault.
type Service struct {
	store  storage.Provider
	edit   *editor.Engine
	logger *slog.Logger
}

// NewService creates a task service over the given vault.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	return &Service{store: store, edit: editor.New(store), logger: logger}
}

// SearchResult is the payload of a vault-wide task search.
type SearchResult struct {
	Tasks      []Task `json:"tasks"`
	TotalFound int    `json:"total_found"`
	Truncated  bool   `json:"truncated"`
}

// Search scans the whole vault, filters, sorts, and truncates to limit.
func (s *Service) Search(ctx context.Context, f Filter, sortBy string, desc bool, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	all, err := s.ScanVault(ctx)
	if err != nil {
		return nil, err
	}
	matched := Sort(f.Apply(all), sortBy, desc)

	total := len(matched)
	truncated := total > limit
	if truncated {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []Task{}
	}
	return &SearchResult{Tasks: matched, TotalFound: total, Truncated: truncated}, nil
}

// ScanVault parses every task line in the vault. Unreadable files are
// skipped with a warning; cancellation aborts between files and discards
// partial results.
func (s *Service) ScanVault(ctx context.Context) ([]Task, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.store.Read(m.Path)
		if err != nil {
			s.logger.Warn("task scan: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		lines, _ := editor.SplitLines(string(data))
		for i, line := range lines {
			if t, ok := Parse(line, i+1, m.Path); ok {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

// NoteTasks parses every task line in a single note.
func (s *Service) NoteTasks(path string) ([]Task, error) {
	lines, _, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}
	var out []Task
	for i, line := range lines {
		if t, ok := Parse(line, i+1, path); ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

// Insert positions for Create.
const (
	InsertEnd          = "end"
	InsertTop          = "top"
	InsertAfterHeading = "after_heading"
)

// CreateRequest describes a new task.
type CreateRequest struct {
	Path          string
	Content       string
	Priority      Priority
	DueDate       models.Date
	ScheduledDate models.Date
	StartDate     models.Date
	Recurrence    string
	InsertAt      string // end (default), top, after_heading
	Heading       string // required for after_heading
}

// CreateResult reports where the task line landed.
type CreateResult struct {
	Line       string `json:"task_line"`
	LineNumber int    `json:"line_number"`
	Path       string `json:"file_path"`
}

// Create formats and inserts a new task line. Inserting after a heading
// that does not exist fails with apperr.ErrNotFound; there is no silent
// fallback to append.
func (s *Service) Create(req CreateRequest) (*CreateResult, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("tasks: content is required: %w", apperr.ErrInvalidInput)
	}
	if req.Priority == "" {
		req.Priority = PriorityNormal
	}
	if !ValidPriority(req.Priority) {
		return nil, fmt.Errorf("tasks: unknown priority %q: %w", req.Priority, apperr.ErrInvalidInput)
	}
	if !ValidRecurrence(req.Recurrence) {
		return nil, fmt.Errorf("tasks: recurrence must start with \"every\": %w", apperr.ErrInvalidInput)
	}

	line := Format(&Task{
		Content:       req.Content,
		Status:        StatusIncomplete,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		ScheduledDate: req.ScheduledDate,
		StartDate:     req.StartDate,
		Recurrence:    req.Recurrence,
	})

	insertAt := req.InsertAt
	if insertAt == "" {
		insertAt = InsertEnd
	}

	lines, trailing, err := s.edit.ReadLines(req.Path)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// New file. A heading target cannot exist in it.
		if insertAt == InsertAfterHeading {
			return nil, fmt.Errorf("tasks: heading %q in new file %s: %w", req.Heading, req.Path, apperr.ErrNotFound)
		}
		if err := s.store.Write(req.Path, []byte(line+"\n")); err != nil {
			return nil, err
		}
		return &CreateResult{Line: line, LineNumber: 1, Path: req.Path}, nil
	}

	var lineNumber int
	switch insertAt {
	case InsertTop:
		lines = append([]string{line}, lines...)
		lineNumber = 1
	case InsertAfterHeading:
		idx := editor.FindHeading(lines, req.Heading)
		if idx < 0 {
			return nil, fmt.Errorf("tasks: heading %q in %s: %w", req.Heading, req.Path, apperr.ErrNotFound)
		}
		lines = append(lines[:idx+1], append([]string{line}, lines[idx+1:]...)...)
		lineNumber = idx + 2
	case InsertEnd:
		lines = append(lines, line)
		lineNumber = len(lines)
	default:
		return nil, fmt.Errorf("tasks: unknown insert position %q: %w", insertAt, apperr.ErrInvalidInput)
	}

	if err := s.edit.WriteLines(req.Path, lines, trailing); err != nil {
		return nil, err
	}
	return &CreateResult{Line: line, LineNumber: lineNumber, Path: req.Path}, nil
}

// ToggleResult reports the outcome of a status toggle.
type ToggleResult struct {
	NewStatus   Status      `json:"new_status"`
	DoneDate    models.Date `json:"done_date,omitempty"`
	UpdatedLine string      `json:"updated_line"`
}

// Toggle flips a task between incomplete and completed. Completing with
// addDoneDate set stamps today's date; toggling back to incomplete always
// clears the done date.
func (s *Service) Toggle(path string, lineNumber int, addDoneDate bool) (*ToggleResult, error) {
	line, err := s.edit.Line(path, lineNumber)
	if err != nil {
		return nil, err
	}
	t, ok := Parse(line, lineNumber, path)
	if !ok {
		return nil, fmt.Errorf("tasks: line %d of %s is not a task: %w", lineNumber, path, apperr.ErrInvalidInput)
	}

	if t.Status == StatusIncomplete {
		t.Status = StatusCompleted
		if addDoneDate {
			t.DoneDate = models.Today()
		}
	} else {
		t.Status = StatusIncomplete
		t.DoneDate = models.Date{}
	}

	updated := Format(t)
	if err := s.edit.UpdateLine(path, lineNumber, updated); err != nil {
		return nil, err
	}
	return &ToggleResult{NewStatus: t.Status, DoneDate: t.DoneDate, UpdatedLine: updated}, nil
}

// MetadataUpdate carries optional field changes. Nil pointers leave the
// field untouched; a pointer to a zero value clears it.
type MetadataUpdate struct {
	Priority      *Priority
	DueDate       *models.Date
	ScheduledDate *models.Date
	StartDate     *models.Date
	Recurrence    *string
}

// UpdateResult reports the rewritten line and which fields changed.
type UpdateResult struct {
	UpdatedLine string   `json:"updated_line"`
	Changes     []string `json:"changes_made"`
}

// UpdateMetadata rewrites a task line with changed metadata, leaving the
// content untouched.
func (s *Service) UpdateMetadata(path string, lineNumber int, u MetadataUpdate) (*UpdateResult, error) {
	line, err := s.edit.Line(path, lineNumber)
	if err != nil {
		return nil, err
	}
	t, ok := Parse(line, lineNumber, path)
	if !ok {
		return nil, fmt.Errorf("tasks: line %d of %s is not a task: %w", lineNumber, path, apperr.ErrInvalidInput)
	}

	var changes []string
	if u.Priority != nil {
		p := *u.Priority
		if p == "" {
			p = PriorityNormal
		}
		if !ValidPriority(p) {
			return nil, fmt.Errorf("tasks: unknown priority %q: %w", p, apperr.ErrInvalidInput)
		}
		t.Priority = p
		changes = append(changes, "priority")
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
		changes = append(changes, "due_date")
	}
	if u.ScheduledDate != nil {
		t.ScheduledDate = *u.ScheduledDate
		changes = append(changes, "scheduled_date")
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
		changes = append(changes, "start_date")
	}
	if u.Recurrence != nil {
		if !ValidRecurrence(*u.Recurrence) {
			return nil, fmt.Errorf("tasks: recurrence must start with \"every\": %w", apperr.ErrInvalidInput)
		}
		t.Recurrence = *u.Recurrence
		changes = append(changes, "recurrence")
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("tasks: no metadata fields to update: %w", apperr.ErrInvalidInput)
	}

	updated := Format(t)
	if err := s.edit.UpdateLine(path, lineNumber, updated); err != nil {
		return nil, err
	}
	return &UpdateResult{UpdatedLine: updated, Changes: changes}, nil
}

// GroupCount is one bucket of grouped statistics.
type GroupCount struct {
	Key   string `json:"group_key"`
	Count int    `json:"count"`
}

// Stats aggregates task counts for a note or the whole vault.
type Stats struct {
	Total      int              `json:"total_tasks"`
	Incomplete int              `json:"incomplete_tasks"`
	Completed  int              `json:"completed_tasks"`
	ByPriority map[Priority]int `json:"by_priority"`
	Overdue    int              `json:"overdue_tasks"`
	Upcoming   int              `json:"upcoming_tasks"`
	Recurring  int              `json:"recurring_tasks"`
	Grouped    []GroupCount     `json:"grouped_data,omitempty"`
}

// Statistics scopes for the stats operation.
const (
	ScopeNote  = "note"
	ScopeVault = "vault"
)

// Statistics computes aggregate counts. scope is "note" (path required) or
// "vault"; groupBy is "", "priority", "status", or "file".
func (s *Service) Statistics(ctx context.Context, scope, path, groupBy string) (*Stats, error) {
	var ts []Task
	var err error
	switch scope {
	case ScopeNote:
		if path == "" {
			return nil, fmt.Errorf("tasks: file path required for note scope: %w", apperr.ErrInvalidInput)
		}
		ts, err = s.NoteTasks(path)
	case ScopeVault:
		ts, err = s.ScanVault(ctx)
	default:
		return nil, fmt.Errorf("tasks: unknown scope %q: %w", scope, apperr.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	st := &Stats{ByPriority: map[Priority]int{
		PriorityHighest: 0, PriorityHigh: 0, PriorityNormal: 0, PriorityLow: 0, PriorityLowest: 0,
	}}
	today := models.Today()
	week := today.AddDays(7)

	for i := range ts {
		t := &ts[i]
		st.Total++
		if t.Status == StatusCompleted {
			st.Completed++
		} else {
			st.Incomplete++
		}
		st.ByPriority[t.Priority]++
		if t.Status == StatusIncomplete && !t.DueDate.IsZero() {
			if t.DueDate.Before(today) {
				st.Overdue++
			} else if !t.DueDate.After(week) {
				st.Upcoming++
			}
		}
		if t.Recurrence != "" {
			st.Recurring++
		}
	}

	if groupBy != "" {
		buckets := make(map[string]int)
		for i := range ts {
			t := &ts[i]
			var key string
			switch groupBy {
			case "priority":
				key = string(t.Priority)
			case "status":
				key = string(t.Status)
			case "file":
				key = t.SourcePath
			default:
				return nil, fmt.Errorf("tasks: unknown grouping %q: %w", groupBy, apperr.ErrInvalidInput)
			}
			buckets[key]++
		}
		for k, v := range buckets {
			st.Grouped = append(st.Grouped, GroupCount{Key: k, Count: v})
		}
		sort.Slice(st.Grouped, func(i, j int) bool {
			if st.Grouped[i].Count != st.Grouped[j].Count {
				return st.Grouped[i].Count > st.Grouped[j].Count
			}
			return st.Grouped[i].Key < st.Grouped[j].Key
		})
	}
	return st, nil
}
