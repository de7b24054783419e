package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/dataview"
	"github.com/starford/ansuz/internal/editor"
	"github.com/starford/ansuz/internal/kanban"
	"github.com/starford/ansuz/internal/links"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/tasks"
)

// Services bundles the domain services the router fronts.
// Events may be nil when no live clients are served.
type Services struct {
	Notes  *noteservice.Service
	Tasks  *tasks.Service
	Fields *dataview.Service
	Boards *kanban.Service
	Links  *links.Service
	Edit   *editor.Engine
	Events EventPublisher
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svcs Services, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svcs.Notes, svcs.Tasks, svcs.Fields, svcs.Boards, svcs.Links, svcs.Edit, svcs.Events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/move", h.MoveNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Search and graph.
	r.Get("/search", h.Search)
	r.Get("/graph", h.Graph)
	r.Get("/backlinks/*", h.Backlinks)

	// Tasks.
	r.Get("/tasks", h.SearchTasks)
	r.Post("/tasks", h.CreateTask)
	r.Post("/tasks/toggle", h.ToggleTask)
	r.Post("/tasks/metadata", h.UpdateTask)
	r.Get("/tasks/stats", h.TaskStats)

	// Dataview fields.
	r.Get("/fields", h.SearchFields)
	r.Post("/fields", h.AddField)
	r.Delete("/fields", h.RemoveField)
	r.Get("/fields/*", h.NoteFields)

	// Kanban boards.
	r.Post("/kanban/cards", h.AddCard)
	r.Post("/kanban/move", h.MoveCard)
	r.Post("/kanban/toggle", h.ToggleCard)
	r.Get("/kanban/stats/*", h.BoardStats)
	r.Get("/kanban/*", h.GetBoard)

	// Link graph analysis.
	r.Get("/links/orphans", h.Orphans)
	r.Get("/links/hubs", h.Hubs)
	r.Get("/links/health", h.LinkHealth)
	r.Get("/links/connections", h.Connections)

	// Line-targeted edits.
	r.Post("/edit/heading", h.InsertAfterHeading)
	r.Post("/edit/block", h.InsertAfterBlock)
	r.Post("/edit/append", h.AppendToNote)
	r.Post("/edit/frontmatter", h.UpdateFrontmatter)
	r.Post("/edit/tags", h.EditTags)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
