package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/tasks"
)

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(q url.Values, name string) (models.Date, error) {
	raw := q.Get(name)
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return d, nil
}

// queryIntPtr parses an optional integer query parameter.
func queryIntPtr(q url.Values, name string) *int {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// SearchTasks handles GET /api/tasks.
func (h *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := tasks.Filter{
		Status:   tasks.Status(q.Get("status")),
		Priority: tasks.Priority(q.Get("priority")),
		Tag:      q.Get("tag"),
		Content:  q.Get("content"),
	}
	var err error
	if f.DueBefore, err = queryDate(q, "due_before"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if f.DueAfter, err = queryDate(q, "due_after"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if f.ScheduledBefore, err = queryDate(q, "scheduled_before"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if f.ScheduledAfter, err = queryDate(q, "scheduled_after"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if f.ScheduledOn, err = queryDate(q, "scheduled_on"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	f.DueWithinDays = queryIntPtr(q, "due_within_days")
	f.ScheduledWithinDays = queryIntPtr(q, "scheduled_within_days")
	if raw := q.Get("has_recurrence"); raw != "" {
		v := raw == "true" || raw == "1"
		f.HasRecurrence = &v
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	desc := q.Get("sort_order") == "desc"

	res, err := h.tasks.Search(r.Context(), f, q.Get("sort_by"), desc, limit)
	if err != nil {
		writeError(w, "search tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cr := tasks.CreateRequest{
		Path:       req.Path,
		Content:    req.Content,
		Priority:   tasks.Priority(req.Priority),
		Recurrence: req.Recurrence,
		InsertAt:   req.InsertAt,
		Heading:    req.Heading,
	}
	var err error
	if cr.DueDate, err = parseOptionalDate(req.DueDate, "due_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if cr.ScheduledDate, err = parseOptionalDate(req.ScheduledDate, "scheduled_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if cr.StartDate, err = parseOptionalDate(req.StartDate, "start_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	res, err := h.tasks.Create(cr)
	if err != nil {
		writeError(w, "create task", err)
		return
	}
	h.publishTaskEvent(res.Path, res.LineNumber)
	writeJSON(w, http.StatusCreated, res)
}

// ToggleTask handles POST /api/tasks/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	var req ToggleTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	addDone := true
	if req.AddDoneDate != nil {
		addDone = *req.AddDoneDate
	}
	res, err := h.tasks.Toggle(req.Path, req.LineNumber, addDone)
	if err != nil {
		writeError(w, "toggle task", err)
		return
	}
	h.publishTaskEvent(req.Path, req.LineNumber)
	writeJSON(w, http.StatusOK, res)
}

// UpdateTask handles POST /api/tasks/metadata.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var u tasks.MetadataUpdate
	if req.Priority != nil {
		p := tasks.Priority(*req.Priority)
		u.Priority = &p
	}
	var err error
	if u.DueDate, err = parseOptionalDatePtr(req.DueDate, "due_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if u.ScheduledDate, err = parseOptionalDatePtr(req.ScheduledDate, "scheduled_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if u.StartDate, err = parseOptionalDatePtr(req.StartDate, "start_date"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	u.Recurrence = req.Recurrence

	res, err := h.tasks.UpdateMetadata(req.Path, req.LineNumber, u)
	if err != nil {
		writeError(w, "update task metadata", err)
		return
	}
	h.publishTaskEvent(req.Path, req.LineNumber)
	writeJSON(w, http.StatusOK, res)
}

// TaskStats handles GET /api/tasks/stats.
func (h *Handler) TaskStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := q.Get("scope")
	if scope == "" {
		scope = tasks.ScopeVault
	}
	st, err := h.tasks.Statistics(r.Context(), scope, q.Get("file_path"), q.Get("group_by"))
	if err != nil {
		writeError(w, "task statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// parseOptionalDate parses an optional YYYY-MM-DD body field.
func parseOptionalDate(raw, name string) (models.Date, error) {
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return d, nil
}

// parseOptionalDatePtr maps a JSON date field to an update pointer: nil
// means untouched, empty string clears, a date sets.
func parseOptionalDatePtr(raw *string, name string) (*models.Date, error) {
	if raw == nil {
		return nil, nil
	}
	if *raw == "" {
		return &models.Date{}, nil
	}
	d, err := models.ParseDate(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, *raw)
	}
	return &d, nil
}
