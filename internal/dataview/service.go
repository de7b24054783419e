package dataview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/editor"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/storage"
)

// Service exposes inline-field operations over a vault.
type Service struct {
	store  storage.Provider
	edit   *editor.Engine
	logger *slog.Logger
}

// NewService creates a field service over the given vault.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	return &Service{store: store, edit: editor.New(store), logger: logger}
}

// NoteFields extracts every inline field from a single note.
func (s *Service) NoteFields(path string) ([]Field, error) {
	lines, _, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}
	fields := Extract(strings.Join(lines, "\n"), path)
	if fields == nil {
		fields = []Field{}
	}
	return fields, nil
}

// SearchQuery narrows a vault-wide field search. Zero-valued criteria are
// inactive; active criteria combine with AND. Key matches on the canonical
// form, Value is a case-insensitive substring match.
type SearchQuery struct {
	Key   string
	Value string
	Type  ValueType
}

// SearchResult is the payload of a vault-wide field search.
type SearchResult struct {
	Fields     []Field `json:"fields"`
	TotalFound int     `json:"total_found"`
	Truncated  bool    `json:"truncated"`
}

// Search scans the whole vault for fields matching q. Unreadable files are
// skipped with a warning; cancellation aborts between files.
func (s *Service) Search(ctx context.Context, q SearchQuery, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	wantKey := CanonicalizeKey(q.Key)
	wantValue := strings.ToLower(q.Value)

	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	var matched []Field
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.store.Read(m.Path)
		if err != nil {
			s.logger.Warn("field search: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		for _, f := range Extract(string(data), m.Path) {
			if q.Key != "" && f.CanonicalKey != wantKey {
				continue
			}
			if q.Value != "" && !strings.Contains(strings.ToLower(f.Value), wantValue) {
				continue
			}
			if q.Type != "" && f.Type != q.Type {
				continue
			}
			matched = append(matched, f)
		}
	}

	total := len(matched)
	truncated := total > limit
	if truncated {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []Field{}
	}
	return &SearchResult{Fields: matched, TotalFound: total, Truncated: truncated}, nil
}

// Insert positions for Add.
const (
	PositionEnd              = "end"
	PositionStart            = "start"
	PositionAfterFrontmatter = "after_frontmatter"
)

// Add inserts a full-line `key:: value` field into the note. Position is
// "end" (default), "start" (the absolute first line, before any
// frontmatter), or "after_frontmatter" (directly after the closing
// delimiter, falling back to the file start when the note has none).
func (s *Service) Add(path, key, value, position string) (*Field, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("dataview: key is required: %w", apperr.ErrInvalidInput)
	}
	lines, trailing, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}

	fieldLine := key + ":: " + value
	if position == "" {
		position = PositionEnd
	}

	var at int // 0-based index the field line ends up on
	switch position {
	case PositionEnd:
		at = len(lines)
		lines = append(lines, fieldLine)
	case PositionStart:
		at = 0
		lines = append([]string{fieldLine}, lines...)
	case PositionAfterFrontmatter:
		if _, close, ok := markdown.FrontmatterSpan(lines); ok {
			at = close + 1
		} else {
			at = 0
		}
		lines = append(lines[:at], append([]string{fieldLine}, lines[at:]...)...)
	default:
		return nil, fmt.Errorf("dataview: unknown position %q: %w", position, apperr.ErrInvalidInput)
	}

	if err := s.edit.WriteLines(path, lines, trailing); err != nil {
		return nil, err
	}
	return &Field{
		Key:          key,
		CanonicalKey: CanonicalizeKey(key),
		Value:        value,
		Type:         InferType(value),
		Syntax:       SyntaxFullLine,
		LineNumber:   at + 1,
		SourcePath:   path,
	}, nil
}

// Remove deletes fields whose canonical key matches key. lineNumber narrows
// the removal to a single 1-based line when positive. Full-line fields take
// the whole line with them; bracket and paren fields are excised from their
// line, preserving the surrounding text. Removing a key with no match is
// apperr.ErrNotFound.
func (s *Service) Remove(path, key string, lineNumber int) (int, error) {
	lines, trailing, err := s.edit.ReadLines(path)
	if err != nil {
		return 0, err
	}
	want := CanonicalizeKey(key)
	fenced := markdown.FenceMask(lines)
	fmOpen, fmClose, hasFM := markdown.FrontmatterSpan(lines)

	removed := 0
	var out []string
	for i, line := range lines {
		n := i + 1
		skip := fenced[i] || (hasFM && i >= fmOpen && i <= fmClose)
		if skip || (lineNumber > 0 && n != lineNumber) {
			out = append(out, line)
			continue
		}

		fields := lineFields(line, n)
		var hits []Field
		for _, f := range fields {
			if f.CanonicalKey == want {
				hits = append(hits, f)
			}
		}
		if len(hits) == 0 {
			out = append(out, line)
			continue
		}
		if hits[0].Syntax == SyntaxFullLine {
			removed++
			continue // drop the whole line
		}
		// Excise inline spans right to left so earlier offsets stay valid.
		for j := len(hits) - 1; j >= 0; j-- {
			h := hits[j]
			line = strings.TrimRight(line[:h.start], " ") + line[h.end:]
			removed++
		}
		out = append(out, line)
	}

	if removed == 0 {
		return 0, fmt.Errorf("dataview: field %q in %s: %w", key, path, apperr.ErrNotFound)
	}
	if out == nil {
		out = []string{}
	}
	if err := s.edit.WriteLines(path, out, trailing); err != nil {
		return 0, err
	}
	return removed, nil
}
