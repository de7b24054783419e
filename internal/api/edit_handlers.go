package api

import (
	"net/http"
)

// InsertAfterHeading handles POST /api/edit/heading.
func (h *Handler) InsertAfterHeading(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Heading == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("heading is required"))
		return
	}
	line, err := h.edit.InsertAfterHeading(req.Path, req.Heading, req.Content)
	if err != nil {
		writeError(w, "insert after heading", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":   req.Path,
		"line_number": line,
	})
}

// InsertAfterBlock handles POST /api/edit/block.
func (h *Handler) InsertAfterBlock(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BlockID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("block_id is required"))
		return
	}
	line, err := h.edit.InsertAfterBlock(req.Path, req.BlockID, req.Content)
	if err != nil {
		writeError(w, "insert after block", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":   req.Path,
		"line_number": line,
	})
}

// AppendToNote handles POST /api/edit/append.
func (h *Handler) AppendToNote(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	line, err := h.edit.Append(req.Path, req.Content)
	if err != nil {
		writeError(w, "append", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":   req.Path,
		"line_number": line,
	})
}

// UpdateFrontmatter handles POST /api/edit/frontmatter.
func (h *Handler) UpdateFrontmatter(w http.ResponseWriter, r *http.Request) {
	var req FrontmatterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.edit.UpdateFrontmatterField(req.Path, req.Key, req.Value); err != nil {
		writeError(w, "update frontmatter", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path": req.Path,
		"key":       req.Key,
	})
}

// EditTags handles POST /api/edit/tags.
func (h *Handler) EditTags(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var (
		tags []string
		err  error
	)
	if req.Action == "add" {
		tags, err = h.edit.AddTag(req.Path, req.Tag)
	} else {
		tags, err = h.edit.RemoveTag(req.Path, req.Tag)
	}
	if err != nil {
		writeError(w, "edit tags", err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path": req.Path,
		"tags":      tags,
	})
}
