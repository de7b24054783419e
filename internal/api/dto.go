package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// Validate implements request validation.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// MoveNoteRequest is the request body for moving a note.
type MoveNoteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate implements request validation.
func (r MoveNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required),
	)
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// CreateTaskRequest is the request body for creating a task line.
type CreateTaskRequest struct {
	Path          string `json:"file_path"`
	Content       string `json:"content"`
	Priority      string `json:"priority,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	Recurrence    string `json:"recurrence,omitempty"`
	InsertAt      string `json:"insert_at,omitempty"`
	Heading       string `json:"heading,omitempty"`
}

// Validate implements request validation.
func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Priority, validation.In("", "highest", "high", "normal", "low", "lowest")),
		validation.Field(&r.InsertAt, validation.In("", "end", "top", "after_heading")),
	)
}

// ToggleTaskRequest is the request body for toggling a task's status.
type ToggleTaskRequest struct {
	Path        string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	AddDoneDate *bool  `json:"add_done_date,omitempty"`
}

// Validate implements request validation.
func (r ToggleTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.LineNumber, validation.Required, validation.Min(1)),
	)
}

// UpdateTaskRequest is the request body for rewriting task metadata.
// Absent fields stay untouched; an empty string clears the field.
type UpdateTaskRequest struct {
	Path          string  `json:"file_path"`
	LineNumber    int     `json:"line_number"`
	Priority      *string `json:"priority,omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	Recurrence    *string `json:"recurrence,omitempty"`
}

// Validate implements request validation.
func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.LineNumber, validation.Required, validation.Min(1)),
	)
}

// AddFieldRequest is the request body for inserting a dataview field.
type AddFieldRequest struct {
	Path     string `json:"file_path"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Position string `json:"position,omitempty"`
}

// Validate implements request validation.
func (r AddFieldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Key, validation.Required),
		validation.Field(&r.Position, validation.In("", "start", "end", "after_frontmatter")),
	)
}

// RemoveFieldRequest is the request body for removing a dataview field.
type RemoveFieldRequest struct {
	Path       string `json:"file_path"`
	Key        string `json:"key"`
	LineNumber int    `json:"line_number,omitempty"`
}

// Validate implements request validation.
func (r RemoveFieldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Key, validation.Required),
	)
}

// AddCardRequest is the request body for adding a kanban card.
type AddCardRequest struct {
	Path     string   `json:"file_path"`
	Column   string   `json:"column"`
	Text     string   `json:"text"`
	DueDate  string   `json:"due_date,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Position string   `json:"position,omitempty"`
}

// Validate implements request validation.
func (r AddCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Column, validation.Required),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Position, validation.In("", "start", "end")),
	)
}

// MoveCardRequest is the request body for moving a kanban card.
type MoveCardRequest struct {
	Path     string `json:"file_path"`
	Text     string `json:"card_text"`
	From     string `json:"from_column"`
	To       string `json:"to_column"`
	Position string `json:"position,omitempty"`
}

// Validate implements request validation.
func (r MoveCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required),
		validation.Field(&r.Position, validation.In("", "start", "end")),
	)
}

// ToggleCardRequest is the request body for toggling a kanban card.
type ToggleCardRequest struct {
	Path   string `json:"file_path"`
	Text   string `json:"card_text"`
	Column string `json:"column"`
}

// Validate implements request validation.
func (r ToggleCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Column, validation.Required),
	)
}

// InsertRequest is the request body for heading- and block-targeted inserts.
type InsertRequest struct {
	Path    string `json:"file_path"`
	Heading string `json:"heading,omitempty"`
	BlockID string `json:"block_id,omitempty"`
	Content string `json:"content"`
}

// Validate implements request validation.
func (r InsertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// FrontmatterRequest is the request body for a frontmatter field update.
type FrontmatterRequest struct {
	Path  string `json:"file_path"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Validate implements request validation.
func (r FrontmatterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Key, validation.Required),
	)
}

// TagRequest is the request body for adding or removing a frontmatter tag.
type TagRequest struct {
	Path   string `json:"file_path"`
	Tag    string `json:"tag"`
	Action string `json:"action"`
}

// Validate implements request validation.
func (r TagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Tag, validation.Required),
		validation.Field(&r.Action, validation.Required, validation.In("add", "remove")),
	)
}
