package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/dataview"
	"github.com/starford/ansuz/internal/kanban"
	"github.com/starford/ansuz/internal/links"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/tasks"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(store, db,
		noteservice.NewService(store, db),
		tasks.NewService(store, logger),
		dataview.NewService(store, logger),
		kanban.NewService(store),
		links.NewService(store, logger),
	)
	return srv, store
}

// callTool invokes a tool handler directly; mcp-go has no test transport.
func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	case "create_task":
		result, err = srv.createTask(ctx, req)
	case "toggle_task_status":
		result, err = srv.toggleTask(ctx, req)
	case "search_tasks":
		result, err = srv.searchTasks(ctx, req)
	case "extract_dataview_fields":
		result, err = srv.extractFields(ctx, req)
	case "add_dataview_field":
		result, err = srv.addField(ctx, req)
	case "search_by_dataview_field":
		result, err = srv.searchFields(ctx, req)
	case "parse_kanban_board":
		result, err = srv.parseBoard(ctx, req)
	case "add_kanban_card":
		result, err = srv.addCard(ctx, req)
	case "move_kanban_card":
		result, err = srv.moveCard(ctx, req)
	case "find_orphaned_notes":
		result, err = srv.orphanedNotes(ctx, req)
	case "get_note_connections":
		result, err = srv.noteConnections(ctx, req)
	case "insert_after_heading":
		result, err = srv.insertAfterHeading(ctx, req)
	case "add_tag":
		result, err = srv.addTag(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{
		"path":    "test.md",
		"content": "# Test\nHello",
	})
	if text := resultText(r); text != "created: test.md" {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "read_note", map[string]any{"path": "test.md"})
	if text := resultText(r); text != "# Test\nHello" {
		t.Errorf("read result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.md", []byte("a"))
	_ = store.Write("b.md", []byte("b"))

	r := callTool(t, srv, "list_notes", map[string]any{})
	if text := resultText(r); text != "a.md\nb.md" {
		t.Errorf("list = %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_note", map[string]any{
		"path": "b.md", "content": "target",
	})
	_ = callTool(t, srv, "create_note", map[string]any{
		"path": "a.md", "content": "links to [[b]]",
	})

	r := callTool(t, srv, "get_backlinks", map[string]any{"path": "b.md"})
	if text := resultText(r); text != "a.md" {
		t.Errorf("backlinks = %q, want a.md", text)
	}
}

func TestTaskTools(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "create_task", map[string]any{
		"file_path": "todo.md",
		"content":   "Ship release",
		"priority":  "high",
		"due_date":  "2025-03-01",
	})
	if text := resultText(r); !strings.Contains(text, `"task_line": "- [ ] Ship release 🔼 📅 2025-03-01"`) {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "toggle_task_status", map[string]any{
		"file_path":   "todo.md",
		"line_number": 1,
	})
	if text := resultText(r); !strings.Contains(text, `"new_status": "completed"`) {
		t.Errorf("toggle result = %q", text)
	}

	data, err := store.Read("todo.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "- [x] Ship release") {
		t.Errorf("file = %q", data)
	}

	r = callTool(t, srv, "search_tasks", map[string]any{"status": "completed"})
	if text := resultText(r); !strings.Contains(text, `"total_found": 1`) {
		t.Errorf("search result = %q", text)
	}
}

func TestFieldTools(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("book.md", []byte("# Book\n\nauthor:: Jane Doe\n"))

	r := callTool(t, srv, "extract_dataview_fields", map[string]any{"file_path": "book.md"})
	if text := resultText(r); !strings.Contains(text, `"author"`) || !strings.Contains(text, "Jane Doe") {
		t.Errorf("extract result = %q", text)
	}

	r = callTool(t, srv, "add_dataview_field", map[string]any{
		"file_path": "book.md", "key": "rating", "value": "5",
	})
	if r.IsError {
		t.Fatalf("add field failed: %+v", r)
	}

	r = callTool(t, srv, "search_by_dataview_field", map[string]any{"key": "rating"})
	if text := resultText(r); !strings.Contains(text, "book.md") {
		t.Errorf("search result = %q", text)
	}
}

func TestKanbanTools(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("board.md", []byte("## To Do\n- [ ] existing\n## Done\n"))

	r := callTool(t, srv, "add_kanban_card", map[string]any{
		"file_path": "board.md", "column": "To Do", "text": "new card",
	})
	if r.IsError {
		t.Fatalf("add card failed: %+v", r)
	}

	r = callTool(t, srv, "move_kanban_card", map[string]any{
		"file_path": "board.md", "card_text": "existing",
		"from_column": "To Do", "to_column": "Done",
	})
	if r.IsError {
		t.Fatalf("move card failed: %+v", r)
	}

	r = callTool(t, srv, "parse_kanban_board", map[string]any{"file_path": "board.md"})
	text := resultText(r)
	if !strings.Contains(text, `"name": "Done"`) || !strings.Contains(text, "existing") {
		t.Errorf("board = %q", text)
	}
}

func TestLinkTools(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.md", []byte("[[b]]\n"))
	_ = store.Write("b.md", []byte("x\n"))
	_ = store.Write("lonely.md", []byte("x\n"))

	r := callTool(t, srv, "find_orphaned_notes", map[string]any{})
	if text := resultText(r); !strings.Contains(text, "lonely.md") {
		t.Errorf("orphans = %q", text)
	}

	r = callTool(t, srv, "get_note_connections", map[string]any{"file_path": "a.md"})
	if text := resultText(r); !strings.Contains(text, "b.md") {
		t.Errorf("connections = %q", text)
	}

	r = callTool(t, srv, "get_note_connections", map[string]any{"file_path": "ghost.md"})
	if !r.IsError {
		t.Error("unknown note should be a tool error")
	}
}

func TestEditTools(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("n.md", []byte("# Top\n\n## Log\nentry\n"))

	r := callTool(t, srv, "insert_after_heading", map[string]any{
		"file_path": "n.md", "heading": "Log", "content": "new entry",
	})
	if text := resultText(r); !strings.Contains(text, "line 4") {
		t.Errorf("insert result = %q", text)
	}

	r = callTool(t, srv, "add_tag", map[string]any{"file_path": "n.md", "tag": "work"})
	if r.IsError {
		t.Fatalf("add tag failed: %+v", r)
	}
	data, _ := store.Read("n.md")
	if !strings.Contains(string(data), "- work") {
		t.Errorf("file = %q", data)
	}
}

func TestNoteContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", nil)
	text := resultText(r)
	if !strings.Contains(strings.ToLower(text), "frontmatter") {
		t.Errorf("contract = %q", text)
	}
	if !strings.Contains(text, "[[") {
		t.Error("contract should document wikilinks")
	}
}
