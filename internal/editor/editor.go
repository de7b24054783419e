// Package editor implements the shared read-modify-write mutation engine:
// locate a target line, splice new content, and persist the whole file
// through the vault's atomic writer. Heading and block targets that do not
// exist fail explicitly with apperr.ErrNotFound — no silent fallback.
package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/storage"
)

// SplitLines splits text into lines the way editors count them: a trailing
// newline does not produce a phantom empty last line. The second return
// value records whether the text ended with a newline so JoinLines can
// reproduce it.
func SplitLines(text string) ([]string, bool) {
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = strings.TrimSuffix(text, "\n")
	}
	if text == "" && trailing {
		return []string{""}, false
	}
	return strings.Split(text, "\n"), trailing
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string, trailing bool) string {
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}

// Engine performs line-targeted mutations against vault files.
type Engine struct {
	store storage.Provider
}

// New creates a mutation engine over the given vault.
func New(store storage.Provider) *Engine {
	return &Engine{store: store}
}

// ReadLines loads a note and splits it into lines. A missing file maps to
// apperr.ErrNotFound.
func (e *Engine) ReadLines(path string) ([]string, bool, error) {
	data, err := e.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("editor: %s: %w", path, apperr.ErrNotFound)
		}
		return nil, false, err
	}
	lines, trailing := SplitLines(string(data))
	return lines, trailing, nil
}

// WriteLines joins lines and persists them atomically.
func (e *Engine) WriteLines(path string, lines []string, trailing bool) error {
	return e.store.Write(path, []byte(JoinLines(lines, trailing)))
}

// FindHeading returns the 0-based index of the first heading line whose
// text equals name (any level), or -1.
func FindHeading(lines []string, name string) int {
	for i, l := range lines {
		tok := markdown.Classify(l, i+1)
		if tok.Kind == markdown.KindHeading && tok.Heading == name {
			return i
		}
	}
	return -1
}

// FindBlock returns the 0-based index of the first line carrying the block
// anchor ^id, or -1. The id may be passed with or without the caret.
func FindBlock(lines []string, id string) int {
	id = strings.TrimPrefix(id, "^")
	for i, l := range lines {
		tok := markdown.Classify(l, i+1)
		if tok.BlockID == id {
			return i
		}
	}
	return -1
}

// spliceAfter inserts content lines immediately after index idx.
func spliceAfter(lines []string, idx int, content ...string) []string {
	out := make([]string, 0, len(lines)+len(content))
	out = append(out, lines[:idx+1]...)
	out = append(out, content...)
	out = append(out, lines[idx+1:]...)
	return out
}

// InsertAfterHeading inserts content on a new line directly after the first
// heading matching heading. Returns the 1-based line number of the inserted
// line. A missing heading is apperr.ErrNotFound.
func (e *Engine) InsertAfterHeading(path, heading, content string) (int, error) {
	lines, trailing, err := e.ReadLines(path)
	if err != nil {
		return 0, err
	}
	idx := FindHeading(lines, heading)
	if idx < 0 {
		return 0, fmt.Errorf("editor: heading %q in %s: %w", heading, path, apperr.ErrNotFound)
	}
	lines = spliceAfter(lines, idx, content)
	if err := e.WriteLines(path, lines, trailing); err != nil {
		return 0, err
	}
	return idx + 2, nil
}

// InsertAfterBlock inserts content on a new line directly after the line
// carrying the block reference ^blockID. A missing block is
// apperr.ErrNotFound.
func (e *Engine) InsertAfterBlock(path, blockID, content string) (int, error) {
	lines, trailing, err := e.ReadLines(path)
	if err != nil {
		return 0, err
	}
	idx := FindBlock(lines, blockID)
	if idx < 0 {
		return 0, fmt.Errorf("editor: block %q in %s: %w", blockID, path, apperr.ErrNotFound)
	}
	lines = spliceAfter(lines, idx, content)
	if err := e.WriteLines(path, lines, trailing); err != nil {
		return 0, err
	}
	return idx + 2, nil
}

// Append adds content as a new final line of the note.
func (e *Engine) Append(path, content string) (int, error) {
	lines, trailing, err := e.ReadLines(path)
	if err != nil {
		return 0, err
	}
	lines = append(lines, content)
	if err := e.WriteLines(path, lines, trailing); err != nil {
		return 0, err
	}
	return len(lines), nil
}

// UpdateLine replaces the 1-based line lineNumber with newLine.
// An out-of-bounds line number is apperr.ErrInvalidInput.
func (e *Engine) UpdateLine(path string, lineNumber int, newLine string) error {
	lines, trailing, err := e.ReadLines(path)
	if err != nil {
		return err
	}
	if lineNumber < 1 || lineNumber > len(lines) {
		return fmt.Errorf("editor: line %d out of range (file has %d lines): %w",
			lineNumber, len(lines), apperr.ErrInvalidInput)
	}
	lines[lineNumber-1] = newLine
	return e.WriteLines(path, lines, trailing)
}

// Line returns the 1-based line lineNumber of the note.
func (e *Engine) Line(path string, lineNumber int) (string, error) {
	lines, _, err := e.ReadLines(path)
	if err != nil {
		return "", err
	}
	if lineNumber < 1 || lineNumber > len(lines) {
		return "", fmt.Errorf("editor: line %d out of range (file has %d lines): %w",
			lineNumber, len(lines), apperr.ErrInvalidInput)
	}
	return lines[lineNumber-1], nil
}
