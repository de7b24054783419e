package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLinkTools() {
	s.mcp.AddTool(mcp.NewTool("get_link_graph",
		mcp.WithDescription("Build the full vault link graph: every note and every "+
			"wikilink/markdown-link/embed edge, including broken targets."),
	), s.linkGraph)

	s.mcp.AddTool(mcp.NewTool("find_orphaned_notes",
		mcp.WithDescription("Notes with no incoming and no outgoing links."),
	), s.orphanedNotes)

	s.mcp.AddTool(mcp.NewTool("find_hub_notes",
		mcp.WithDescription("Notes whose outgoing-link count meets a threshold."),
		mcp.WithNumber("threshold", mcp.Description("Minimum outgoing links (default 5)")),
	), s.hubNotes)

	s.mcp.AddTool(mcp.NewTool("analyze_link_health",
		mcp.WithDescription("Vault-wide link integrity: totals, broken links, orphans, "+
			"notes without inlinks or outlinks."),
	), s.linkHealth)

	s.mcp.AddTool(mcp.NewTool("get_note_connections",
		mcp.WithDescription("Breadth-first neighborhood of a note along both link "+
			"directions, up to depth 3. Each note is labeled with its minimum depth."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Start note")),
		mcp.WithNumber("depth", mcp.Description("Expansion depth 1-3 (default 1)")),
	), s.noteConnections)
}

func (s *Server) linkGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.links.Build(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(g), nil
}

func (s *Server) orphanedNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.links.Build(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	orphans := g.Orphans()
	if orphans == nil {
		orphans = []string{}
	}
	return jsonResult(map[string]any{
		"orphans": orphans,
		"total":   len(orphans),
	}), nil
}

func (s *Server) hubNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.links.Build(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hubs := g.Hubs(req.GetInt("threshold", 0))
	return jsonResult(map[string]any{
		"hubs":  hubs,
		"total": len(hubs),
	}), nil
}

func (s *Server) linkHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.links.Build(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(g.Health()), nil
}

func (s *Server) noteConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.links.Build(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conns, err := g.Connections(path, req.GetInt("depth", 1))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"file_path":   path,
		"connections": conns,
		"total":       len(conns),
	}), nil
}
