package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/dataview"
)

func (s *Server) registerFieldTools() {
	s.mcp.AddTool(mcp.NewTool("extract_dataview_fields",
		mcp.WithDescription("Extract all inline Dataview fields (key:: value, [key:: value], "+
			"(key:: value)) from a note. Fenced code blocks are skipped."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to scan")),
	), s.extractFields)

	s.mcp.AddTool(mcp.NewTool("search_by_dataview_field",
		mcp.WithDescription("Search the whole vault for inline fields by key, value, or type."),
		mcp.WithString("key", mcp.Description("Canonical field key to match")),
		mcp.WithString("value", mcp.Description("Case-insensitive value substring to match")),
		mcp.WithString("type", mcp.Description("Value type: string, number, boolean, date, link, list")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 100)")),
	), s.searchFields)

	s.mcp.AddTool(mcp.NewTool("add_dataview_field",
		mcp.WithDescription("Insert a full-line key:: value field into a note."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Field key")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Field value")),
		mcp.WithString("position", mcp.Description("end (default), start, or after_frontmatter")),
	), s.addField)

	s.mcp.AddTool(mcp.NewTool("remove_dataview_field",
		mcp.WithDescription("Remove inline fields matching a canonical key. Full-line fields "+
			"take their whole line; bracket and paren fields are excised from surrounding text."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Field key to remove")),
		mcp.WithNumber("line_number", mcp.Description("Narrow removal to one 1-based line")),
	), s.removeField)
}

func (s *Server) extractFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := s.fields.NoteFields(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fields), nil
}

func (s *Server) searchFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := dataview.SearchQuery{
		Key:   req.GetString("key", ""),
		Value: req.GetString("value", ""),
		Type:  dataview.ValueType(req.GetString("type", "")),
	}
	if q.Key == "" && q.Value == "" && q.Type == "" {
		return mcp.NewToolResultError("at least one of key, value, type is required"), nil
	}
	res, err := s.fields.Search(ctx, q, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) addField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := s.fields.Add(path, key, value, req.GetString("position", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(field), nil
}

func (s *Server) removeField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	removed, err := s.fields.Remove(path, key, req.GetInt("line_number", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"file_path":     path,
		"key":           key,
		"removed_count": removed,
	}), nil
}
