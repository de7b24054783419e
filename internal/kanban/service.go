package kanban

import (
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/editor"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Service exposes board operations over a vault.
type Service struct {
	store storage.Provider
	edit  *editor.Engine
}

// NewService creates a board service over the given vault.
func NewService(store storage.Provider) *Service {
	return &Service{store: store, edit: editor.New(store)}
}

// Board parses the board in the given note.
func (s *Service) Board(path string) (*Board, error) {
	lines, _, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return Parse(strings.Join(lines, "\n"), path), nil
}

// Card positions.
const (
	PositionStart = "start"
	PositionEnd   = "end"
)

// columnSpan returns the 0-based half-open line range (head, end] of the
// named column's body: head is the heading line index, end is the index of
// the next heading that closes the column or opens another one, the same
// boundary rule Parse applies (or the file end). A level-2 column therefore
// ends at a level-3 heading too, since that heading starts a new column.
func columnSpan(lines []string, col *Column) (head, end int) {
	head = col.LineNumber - 1
	fenced := markdown.FenceMask(lines)
	for i := head + 1; i < len(lines); i++ {
		if fenced[i] {
			continue
		}
		tok := markdown.Classify(lines[i], i+1)
		if tok.Kind != markdown.KindHeading {
			continue
		}
		if tok.Level <= col.Level || tok.Level == 2 || tok.Level == 3 {
			return head, i
		}
	}
	return head, len(lines)
}

// cardSpan returns the 0-based half-open line range of a card including its
// subtask lines.
func cardSpan(lines []string, card *Card) (start, end int) {
	start = card.LineNumber - 1
	end = start + 1
	for end < len(lines) {
		tok := markdown.Classify(lines[end], end+1)
		if tok.Kind == markdown.KindCheckbox && tok.Indent > card.Indent {
			end++
			continue
		}
		break
	}
	return start, end
}

// insertIntoColumn splices content lines into a column at start (right
// after the heading) or end (after the last non-blank line of the span).
func insertIntoColumn(lines []string, head, end int, position string, content []string) ([]string, error) {
	var at int
	switch position {
	case PositionStart:
		at = head + 1
	case "", PositionEnd:
		at = head + 1
		for i := end - 1; i > head; i-- {
			if strings.TrimSpace(lines[i]) != "" {
				at = i + 1
				break
			}
		}
	default:
		return nil, fmt.Errorf("kanban: unknown position %q: %w", position, apperr.ErrInvalidInput)
	}
	out := make([]string, 0, len(lines)+len(content))
	out = append(out, lines[:at]...)
	out = append(out, content...)
	out = append(out, lines[at:]...)
	return out, nil
}

// AddCard appends a new checkbox card to the named column. Optional due
// date and tags are rendered into the card text. A missing column is
// apperr.ErrNotFound.
func (s *Service) AddCard(path, column, text string, due models.Date, tags []string, position string) (*Card, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("kanban: card text is required: %w", apperr.ErrInvalidInput)
	}
	lines, trailing, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}
	board := Parse(strings.Join(lines, "\n"), path)
	col := board.Column(column)
	if col == nil {
		return nil, fmt.Errorf("kanban: column %q in %s: %w", column, path, apperr.ErrNotFound)
	}

	body := text
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" && !strings.Contains(body, "#"+t) {
			body += " #" + t
		}
	}
	if !due.IsZero() {
		body += " @{" + due.String() + "}"
	}

	head, end := columnSpan(lines, col)
	out, err := insertIntoColumn(lines, head, end, position, []string{"- [ ] " + body})
	if err != nil {
		return nil, err
	}
	if err := s.edit.WriteLines(path, out, trailing); err != nil {
		return nil, err
	}
	card := newCard(markdown.Classify("- [ ] "+body, 0))
	return &card, nil
}

// MoveCard relocates a card (with its subtasks, verbatim) from one column
// to another. The card is matched by exact text. Missing card or column is
// apperr.ErrNotFound.
func (s *Service) MoveCard(path, text, from, to, position string) error {
	lines, trailing, err := s.edit.ReadLines(path)
	if err != nil {
		return err
	}
	board := Parse(strings.Join(lines, "\n"), path)
	if board.Column(to) == nil {
		return fmt.Errorf("kanban: column %q in %s: %w", to, path, apperr.ErrNotFound)
	}
	if board.Column(from) == nil {
		return fmt.Errorf("kanban: column %q in %s: %w", from, path, apperr.ErrNotFound)
	}
	card := board.FindCard(from, text)
	if card == nil {
		return fmt.Errorf("kanban: card %q in column %q of %s: %w", text, from, path, apperr.ErrNotFound)
	}

	start, end := cardSpan(lines, card)
	span := make([]string, end-start)
	copy(span, lines[start:end])
	remaining := append(lines[:start:start], lines[end:]...)

	// Recompute the destination span against the shortened file.
	reparsed := Parse(strings.Join(remaining, "\n"), path)
	dest := reparsed.Column(to)
	if dest == nil {
		return fmt.Errorf("kanban: column %q in %s: %w", to, path, apperr.ErrNotFound)
	}
	head, colEnd := columnSpan(remaining, dest)
	out, err := insertIntoColumn(remaining, head, colEnd, position, span)
	if err != nil {
		return err
	}
	return s.edit.WriteLines(path, out, trailing)
}

// ToggleCard flips the checkbox marker on the matched card's own line.
// Subtasks and inline metadata are untouched.
func (s *Service) ToggleCard(path, text, column string) (*Card, error) {
	lines, trailing, err := s.edit.ReadLines(path)
	if err != nil {
		return nil, err
	}
	board := Parse(strings.Join(lines, "\n"), path)
	if board.Column(column) == nil {
		return nil, fmt.Errorf("kanban: column %q in %s: %w", column, path, apperr.ErrNotFound)
	}
	card := board.FindCard(column, text)
	if card == nil {
		return nil, fmt.Errorf("kanban: card %q in column %q of %s: %w", text, column, path, apperr.ErrNotFound)
	}

	idx := card.LineNumber - 1
	line := lines[idx]
	if card.Completed {
		line = strings.Replace(line, "[x]", "[ ]", 1)
		line = strings.Replace(line, "[X]", "[ ]", 1)
	} else {
		line = strings.Replace(line, "[ ]", "[x]", 1)
	}
	lines[idx] = line
	if err := s.edit.WriteLines(path, lines, trailing); err != nil {
		return nil, err
	}

	toggled := newCard(markdown.Classify(line, card.LineNumber))
	return &toggled, nil
}

// ColumnStats is the per-column slice of board statistics.
type ColumnStats struct {
	Name           string  `json:"name"`
	Total          int     `json:"total_cards"`
	Completed      int     `json:"completed_cards"`
	CompletionRate float64 `json:"completion_rate"`
}

// Stats aggregates card counts for a board.
type Stats struct {
	Path           string        `json:"file_path"`
	Columns        []ColumnStats `json:"columns"`
	TotalCards     int           `json:"total_cards"`
	CompletedCards int           `json:"completed_cards"`
	CompletionPct  float64       `json:"completion_percentage"`
}

// Statistics computes per-column and whole-board completion counts.
func (s *Service) Statistics(path string) (*Stats, error) {
	board, err := s.Board(path)
	if err != nil {
		return nil, err
	}
	st := &Stats{Path: path, Columns: []ColumnStats{}}
	for _, col := range board.Columns {
		cs := ColumnStats{Name: col.Name, Total: len(col.Cards)}
		for _, c := range col.Cards {
			if c.Completed {
				cs.Completed++
			}
		}
		if cs.Total > 0 {
			cs.CompletionRate = float64(cs.Completed) / float64(cs.Total)
		}
		st.TotalCards += cs.Total
		st.CompletedCards += cs.Completed
		st.Columns = append(st.Columns, cs)
	}
	if st.TotalCards > 0 {
		st.CompletionPct = 100 * float64(st.CompletedCards) / float64(st.TotalCards)
	}
	return st, nil
}
