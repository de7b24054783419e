// Package kanban parses and mutates markdown board files. A level-2 or
// level-3 heading opens a column; the column's cards are the checkbox items
// before the next heading of equal or higher level. A checkbox indented
// deeper than the preceding card is that card's subtask. Card text keeps
// its inline metadata (@{date} due tokens, #tags, [[wikilinks]]) verbatim.
package kanban

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
)

// Card is one checkbox item on a board, with derived metadata and its
// subtasks. Text is the raw item body, metadata included.
type Card struct {
	Text       string      `json:"text"`
	Completed  bool        `json:"completed"`
	DueDate    models.Date `json:"due_date,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Wikilinks  []string    `json:"wikilinks,omitempty"`
	LineNumber int         `json:"line_number"`
	Indent     int         `json:"-"`
	Subtasks   []Card      `json:"subtasks,omitempty"`
}

// Column is one board lane.
type Column struct {
	Name       string `json:"name"`
	Level      int    `json:"-"`
	LineNumber int    `json:"line_number"`
	Cards      []Card `json:"cards"`
}

// Board is a parsed kanban file.
type Board struct {
	Path    string   `json:"file_path"`
	Columns []Column `json:"columns"`
}

var (
	dueTokenRe = regexp.MustCompile(`@\{(\d{4}-\d{2}-\d{2})\}`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]`)
)

// newCard builds a Card from a classified checkbox line. Metadata is
// extracted without altering the text.
func newCard(tok markdown.Line) Card {
	c := Card{
		Text:       tok.Body,
		Completed:  tok.Checked,
		LineNumber: tok.Number,
		Indent:     tok.Indent,
		Tags:       markdown.Tags(tok.Body),
	}
	if m := dueTokenRe.FindStringSubmatch(tok.Body); m != nil {
		if d, err := models.ParseDate(m[1]); err == nil {
			c.DueDate = d
		}
	}
	for _, m := range wikilinkRe.FindAllStringSubmatch(tok.Body, -1) {
		c.Wikilinks = append(c.Wikilinks, strings.TrimSpace(m[1]))
	}
	return c
}

// Parse reads a board out of note text. Headings outside levels 2-3 close
// the current column without opening a new one.
func Parse(text, path string) *Board {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	fenced := markdown.FenceMask(lines)

	board := &Board{Path: path, Columns: []Column{}}
	var col *Column

	flush := func() {
		if col != nil {
			board.Columns = append(board.Columns, *col)
			col = nil
		}
	}

	for i, raw := range lines {
		if fenced[i] {
			continue
		}
		tok := markdown.Classify(raw, i+1)
		switch tok.Kind {
		case markdown.KindHeading:
			if col != nil && tok.Level <= col.Level {
				flush()
			}
			if tok.Level == 2 || tok.Level == 3 {
				flush()
				col = &Column{Name: tok.Heading, Level: tok.Level, LineNumber: tok.Number, Cards: []Card{}}
			}
		case markdown.KindCheckbox:
			if col == nil {
				continue
			}
			card := newCard(tok)
			if n := len(col.Cards); n > 0 && card.Indent > col.Cards[n-1].Indent {
				parent := &col.Cards[n-1]
				parent.Subtasks = append(parent.Subtasks, card)
				continue
			}
			col.Cards = append(col.Cards, card)
		}
	}
	flush()
	return board
}

// Column returns the named column, or nil.
func (b *Board) Column(name string) *Column {
	for i := range b.Columns {
		if b.Columns[i].Name == name {
			return &b.Columns[i]
		}
	}
	return nil
}

// FindCard returns the card with exactly matching text in the named
// column, or nil.
func (b *Board) FindCard(column, text string) *Card {
	col := b.Column(column)
	if col == nil {
		return nil
	}
	for i := range col.Cards {
		if col.Cards[i].Text == text {
			return &col.Cards[i]
		}
	}
	return nil
}
