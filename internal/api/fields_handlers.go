package api

import (
	"net/http"
	"strconv"

	"github.com/starford/ansuz/internal/dataview"
)

// NoteFields handles GET /api/fields/*.
func (h *Handler) NoteFields(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	fields, err := h.fields.NoteFields(path)
	if err != nil {
		writeError(w, "note fields", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path": path,
		"fields":    fields,
	})
}

// SearchFields handles GET /api/fields.
func (h *Handler) SearchFields(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dataview.SearchQuery{
		Key:   q.Get("key"),
		Value: q.Get("value"),
		Type:  dataview.ValueType(q.Get("type")),
	}
	if query.Key == "" && query.Value == "" && query.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("at least one of key, value, type is required"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.fields.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, "search fields", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AddField handles POST /api/fields.
func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	var req AddFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	field, err := h.fields.Add(req.Path, req.Key, req.Value, req.Position)
	if err != nil {
		writeError(w, "add field", err)
		return
	}
	writeJSON(w, http.StatusCreated, field)
}

// RemoveField handles DELETE /api/fields.
func (h *Handler) RemoveField(w http.ResponseWriter, r *http.Request) {
	var req RemoveFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	removed, err := h.fields.Remove(req.Path, req.Key, req.LineNumber)
	if err != nil {
		writeError(w, "remove field", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":     req.Path,
		"key":           req.Key,
		"removed_count": removed,
	})
}
