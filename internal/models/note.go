// Package models defines the domain types for Ansuz.
package models

import "time"

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string         `json:"path"`
	Content     []byte         `json:"-"`
	Body        string         `json:"body"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Title       string         `json:"title,omitempty"`
	Links       []string       `json:"links,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Checksum    string         `json:"checksum"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkKind classifies how one note references another.
type LinkKind string

const (
	LinkWikilink LinkKind = "wikilink"
	LinkMarkdown LinkKind = "markdown"
	LinkEmbed    LinkKind = "embed"
)

// Link represents a directed edge between a note and a target identity.
// Target is the resolved vault-relative path when Resolved is true, or the
// raw link target when the edge is broken.
type Link struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Kind     LinkKind `json:"kind"`
	Resolved bool     `json:"resolved"`
}
