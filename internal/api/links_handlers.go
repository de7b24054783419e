package api

import (
	"net/http"
	"strconv"
)

// Orphans handles GET /api/links/orphans.
func (h *Handler) Orphans(w http.ResponseWriter, r *http.Request) {
	g, err := h.links.Build(r.Context())
	if err != nil {
		writeError(w, "orphans", err)
		return
	}
	orphans := g.Orphans()
	if orphans == nil {
		orphans = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orphans": orphans,
		"total":   len(orphans),
	})
}

// Hubs handles GET /api/links/hubs.
func (h *Handler) Hubs(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))
	g, err := h.links.Build(r.Context())
	if err != nil {
		writeError(w, "hubs", err)
		return
	}
	hubs := g.Hubs(threshold)
	writeJSON(w, http.StatusOK, map[string]any{
		"hubs":  hubs,
		"total": len(hubs),
	})
}

// LinkHealth handles GET /api/links/health.
func (h *Handler) LinkHealth(w http.ResponseWriter, r *http.Request) {
	g, err := h.links.Build(r.Context())
	if err != nil {
		writeError(w, "link health", err)
		return
	}
	writeJSON(w, http.StatusOK, g.Health())
}

// Connections handles GET /api/links/connections.
func (h *Handler) Connections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	depth, _ := strconv.Atoi(q.Get("depth"))

	g, err := h.links.Build(r.Context())
	if err != nil {
		writeError(w, "connections", err)
		return
	}
	conns, err := g.Connections(path, depth)
	if err != nil {
		writeError(w, "connections", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":        path,
		"connections": conns,
		"total":       len(conns),
	})
}
