package api

import (
	"net/http"
)

// GetBoard handles GET /api/kanban/*.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	board, err := h.boards.Board(path)
	if err != nil {
		writeError(w, "get board", err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// AddCard handles POST /api/kanban/cards.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req AddCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	due, err := parseOptionalDate(req.DueDate, "due_date")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	card, err := h.boards.AddCard(req.Path, req.Column, req.Text, due, req.Tags, req.Position)
	if err != nil {
		writeError(w, "add card", err)
		return
	}
	h.publishBoardEvent(req.Path)
	writeJSON(w, http.StatusCreated, card)
}

// MoveCard handles POST /api/kanban/move.
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	var req MoveCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.boards.MoveCard(req.Path, req.Text, req.From, req.To, req.Position); err != nil {
		writeError(w, "move card", err)
		return
	}
	h.publishBoardEvent(req.Path)
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path":   req.Path,
		"card_text":   req.Text,
		"from_column": req.From,
		"to_column":   req.To,
	})
}

// ToggleCard handles POST /api/kanban/toggle.
func (h *Handler) ToggleCard(w http.ResponseWriter, r *http.Request) {
	var req ToggleCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	card, err := h.boards.ToggleCard(req.Path, req.Text, req.Column)
	if err != nil {
		writeError(w, "toggle card", err)
		return
	}
	h.publishBoardEvent(req.Path)
	writeJSON(w, http.StatusOK, card)
}

// BoardStats handles GET /api/kanban/stats/*.
func (h *Handler) BoardStats(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	st, err := h.boards.Statistics(path)
	if err != nil {
		writeError(w, "board statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
