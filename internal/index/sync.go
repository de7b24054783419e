package index

import (
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/links"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/tasks"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	paths := make([]string, len(metas))
	for i, m := range metas {
		paths[i] = m.Path
	}
	resolver := links.NewResolver(paths)

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, resolver, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses note data and upserts it into the DB.
func indexFile(db *DB, resolver *links.Resolver, path string, data []byte) error {
	fm, body := markdown.SplitFrontmatter(data)
	cs := checksum.Sum(data)

	row := NoteRow{
		Path:     path,
		Title:    markdown.NoteTitle(fm, body, path),
		Checksum: cs,
		Tags:     markdown.NoteTags(fm, body),
	}
	for _, line := range strings.Split(body, "\n") {
		if t, ok := tasks.Parse(line, 0, path); ok {
			row.TaskTotal++
			if t.Status == tasks.StatusIncomplete {
				row.TaskIncomplete++
			}
		}
	}

	var edges []models.Link
	for _, raw := range links.Extract(body) {
		edge := models.Link{Source: path, Target: raw.Target, Kind: raw.Kind}
		if resolved, ok := resolver.Resolve(raw.Target); ok {
			edge.Target = resolved
			edge.Resolved = true
		}
		edges = append(edges, edge)
	}

	return db.UpsertNote(row, body, edges)
}
