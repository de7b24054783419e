// Package noteservice coordinates note CRUD across storage and the index.
package noteservice

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/links"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/tasks"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path           string    `json:"path"`
	Title          string    `json:"title"`
	Checksum       string    `json:"checksum"`
	Tags           []string  `json:"tags"`
	TaskTotal      int       `json:"task_total"`
	TaskIncomplete int       `json:"task_incomplete"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// GetNote reads a note from storage, parses it, and enriches with backlinks.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildNoteDetail(path, data)
}

// CreateNote writes a new note and indexes it.
func (s *Service) CreateNote(_ context.Context, path string, content []byte) (*NoteDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(path, content)
}

// UpdateNote writes updated content with optimistic concurrency.
func (s *Service) UpdateNote(_ context.Context, path string, content []byte, ifMatch string) (*NoteDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(path, content)
}

// DeleteNote removes a note from storage and index.
func (s *Service) DeleteNote(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteNote(path)
}

// MoveNote relocates a note on disk and reindexes both paths.
func (s *Service) MoveNote(_ context.Context, from, to string) (*NoteDetail, error) {
	if _, err := s.store.Read(to); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Move(from, to); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if err := s.db.DeleteNote(from); err != nil {
		return nil, err
	}
	data, err := s.store.Read(to)
	if err != nil {
		return nil, err
	}
	if err := s.IndexFile(to, data); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(to, data)
}

// ListNotes returns paginated notes with optional tag filter.
func (s *Service) ListNotes(_ context.Context, limit, offset int, tag, sort string) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:           r.Path,
			Title:          r.Title,
			Checksum:       r.Checksum,
			Tags:           nonNilSlice(r.Tags),
			TaskTotal:      r.TaskTotal,
			TaskIncomplete: r.TaskIncomplete,
			UpdatedAt:      r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Backlinks returns all note paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// IndexFile parses data and upserts it into the index.
// Exported so that sync and watcher can reuse it.
func (s *Service) IndexFile(path string, data []byte) error {
	fm, body := markdown.SplitFrontmatter(data)
	row := index.NoteRow{
		Path:      path,
		Title:     markdown.NoteTitle(fm, body, path),
		Checksum:  checksum.Sum(data),
		Tags:      markdown.NoteTags(fm, body),
		UpdatedAt: time.Now(),
	}
	for _, line := range strings.Split(body, "\n") {
		if t, ok := tasks.Parse(line, 0, path); ok {
			row.TaskTotal++
			if t.Status == tasks.StatusIncomplete {
				row.TaskIncomplete++
			}
		}
	}
	return s.db.UpsertNote(row, body, s.resolveLinks(path, body))
}

// resolveLinks extracts outgoing links and resolves them against the
// current vault listing.
func (s *Service) resolveLinks(path, body string) []models.Link {
	var paths []string
	if metas, err := s.store.List(""); err == nil {
		paths = make([]string, len(metas))
		for i, m := range metas {
			paths[i] = m.Path
		}
	}
	resolver := links.NewResolver(paths)

	var edges []models.Link
	for _, raw := range links.Extract(body) {
		edge := models.Link{Source: path, Target: raw.Target, Kind: raw.Kind}
		if resolved, ok := resolver.Resolve(raw.Target); ok {
			edge.Target = resolved
			edge.Resolved = true
		}
		edges = append(edges, edge)
	}
	return edges
}

// buildNoteDetail constructs a NoteDetail from raw data without re-reading the file.
func (s *Service) buildNoteDetail(path string, data []byte) (*NoteDetail, error) {
	fm, body := markdown.SplitFrontmatter(data)
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Path:        path,
		Title:       markdown.NoteTitle(fm, body, path),
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Tags:        nonNilSlice(markdown.NoteTags(fm, body)),
		Frontmatter: fm,
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   time.Now(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
