package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Ansuz Note Format Contract

Every Markdown note stored in Ansuz MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # REQUIRED – used in search, sidebar, graph
tags:                               # OPTIONAL – YAML list; used for filtering
  - tag-one
  - tag-two
created: 2025-01-15                 # OPTIONAL – ISO-8601 date or datetime
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes (without .md extension).
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "```" + `---` + "```" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` field is required.** It is the primary display name everywhere.
3. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `).
4. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is the
   filename stem (no ` + "`" + `.md` + "`" + ` extension, path separators OK: ` + "`" + `[[folder/note]]` + "`" + `).
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.
7. **No HTML** unless absolutely necessary; prefer Markdown equivalents.

## Tasks

Tasks are checkbox list items with optional emoji metadata after the text:

` + "```" + `markdown
- [ ] Incomplete task
- [x] Completed task ✅ 2025-01-18
- [ ] Task with metadata ⏫ 🛫 2025-01-15 ⏳ 2025-01-18 📅 2025-01-20 🔁 every week
` + "```" + `

- Priority markers: ⏫ highest, 🔼 high, 🔽 low, ⏬ lowest. No marker means normal.
- Date markers: 🛫 start, ⏳ scheduled, 📅 due, ➕ created, ✅ done. Dates are YYYY-MM-DD.
- Recurrence: 🔁 followed by a rule starting with ` + "`" + `every` + "`" + ` (e.g. ` + "`" + `🔁 every 2 weeks` + "`" + `).
- Metadata comes after the task text, in the order priority, start, scheduled, due, done, created, recurrence.

## Inline Fields

Dataview-style inline fields attach structured data to a note:

` + "```" + `markdown
rating:: 5
This book [author:: Jane Doe] was published in (year:: 1998).
` + "```" + `

- Full-line form ` + "`" + `key:: value` + "`" + `, inline bracket ` + "`" + `[key:: value]` + "`" + `, inline paren ` + "`" + `(key:: value)` + "`" + `.
- Keys are matched case-insensitively after normalization to kebab-case.

## Kanban Boards

A board is a plain note where level-2 or level-3 headings are columns and
checkbox items under them are cards:

` + "```" + `markdown
## To Do

- [ ] Write the report @{2025-01-20} #work
  - [ ] Gather numbers

## Done

- [x] Ship v1
` + "```" + `

- ` + "`" + `@{YYYY-MM-DD}` + "`" + ` marks a card due date; ` + "`" + `#tags` + "`" + ` and ` + "`" + `[[wikilinks]]` + "`" + ` are allowed on cards.
- Checkboxes indented deeper than a card are its subtasks and move with it.

## Example

` + "```" + `markdown
---
title: Weekly standup 2025-01-20
tags:
  - meeting-notes
  - project-x
created: 2025-01-20
---

# Weekly standup 2025-01-20

Attendees: Alice, Bob.

status:: in-progress

## Action items

- [ ] [[alice]] to review the [[design-doc]] 📅 2025-01-22
- [ ] Bob to update [[project-x/roadmap|the roadmap]] ⏫
` + "```" + `
`
