package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerKanbanTools() {
	s.mcp.AddTool(mcp.NewTool("parse_kanban_board",
		mcp.WithDescription("Parse a markdown kanban board: level-2/3 headings are columns, "+
			"checkbox items are cards, deeper-indented checkboxes are subtasks."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Board note to parse")),
	), s.parseBoard)

	s.mcp.AddTool(mcp.NewTool("add_kanban_card",
		mcp.WithDescription("Add a card to a named column. Fails if the column does not exist."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Board note")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column heading text")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Card text")),
		mcp.WithString("due_date", mcp.Description("Optional due date YYYY-MM-DD, rendered as @{date}")),
		mcp.WithString("position", mcp.Description("start or end (default end)")),
	), s.addCard)

	s.mcp.AddTool(mcp.NewTool("move_kanban_card",
		mcp.WithDescription("Move a card (with its subtasks, verbatim) between columns. "+
			"The card is matched by exact text."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Board note")),
		mcp.WithString("card_text", mcp.Required(), mcp.Description("Exact card text to match")),
		mcp.WithString("from_column", mcp.Required(), mcp.Description("Source column heading")),
		mcp.WithString("to_column", mcp.Required(), mcp.Description("Destination column heading")),
		mcp.WithString("position", mcp.Description("start or end (default end)")),
	), s.moveCard)

	s.mcp.AddTool(mcp.NewTool("toggle_kanban_card",
		mcp.WithDescription("Flip the checkbox marker on a card's own line. Subtasks and "+
			"inline metadata are untouched."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Board note")),
		mcp.WithString("card_text", mcp.Required(), mcp.Description("Exact card text to match")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column heading containing the card")),
	), s.toggleCard)

	s.mcp.AddTool(mcp.NewTool("get_kanban_statistics",
		mcp.WithDescription("Per-column and whole-board completion counts."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Board note")),
	), s.boardStatistics)
}

func (s *Server) parseBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	board, err := s.boards.Board(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(board), nil
}

func (s *Server) addCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column, err := req.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	due, err := toolDate(req, "due_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.boards.AddCard(path, column, text, due, nil, req.GetString("position", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(card), nil
}

func (s *Server) moveCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("card_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from_column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to_column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.boards.MoveCard(path, text, from, to, req.GetString("position", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{
		"file_path":   path,
		"card_text":   text,
		"from_column": from,
		"to_column":   to,
	}), nil
}

func (s *Server) toggleCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("card_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column, err := req.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.boards.ToggleCard(path, text, column)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(card), nil
}

func (s *Server) boardStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.boards.Statistics(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st), nil
}
