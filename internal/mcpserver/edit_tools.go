package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerEditTools() {
	s.mcp.AddTool(mcp.NewTool("insert_after_heading",
		mcp.WithDescription("Insert content on a new line directly after the first heading "+
			"with the given text. Fails if the heading does not exist."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Exact heading text (without # markers)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to insert")),
	), s.insertAfterHeading)

	s.mcp.AddTool(mcp.NewTool("insert_after_block",
		mcp.WithDescription("Insert content on a new line directly after the line carrying "+
			"the block reference ^block-id. Fails if the block does not exist."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("Block ID, with or without the ^ prefix")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to insert")),
	), s.insertAfterBlock)

	s.mcp.AddTool(mcp.NewTool("append_to_note",
		mcp.WithDescription("Append content as a new final line of the note."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append")),
	), s.appendToNote)

	s.mcp.AddTool(mcp.NewTool("update_frontmatter_field",
		mcp.WithDescription("Set a frontmatter field, replacing it in place or synthesizing "+
			"a frontmatter block when the note has none."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Frontmatter key")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
	), s.updateFrontmatterField)

	s.mcp.AddTool(mcp.NewTool("add_tag",
		mcp.WithDescription("Add a tag to the note's frontmatter tags list. Adding a tag "+
			"that is already present is a no-op."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag, with or without the # prefix")),
	), s.addTag)

	s.mcp.AddTool(mcp.NewTool("remove_tag",
		mcp.WithDescription("Remove a tag from the note's frontmatter tags list. Removing "+
			"an absent tag is a no-op."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to modify")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag, with or without the # prefix")),
	), s.removeTag)
}

func (s *Server) insertAfterHeading(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	heading, err := req.RequireString("heading")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := s.edit.InsertAfterHeading(path, heading, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("inserted at line %d of %s", line, path)), nil
}

func (s *Server) insertAfterBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blockID, err := req.RequireString("block_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := s.edit.InsertAfterBlock(path, blockID, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("inserted at line %d of %s", line, path)), nil
}

func (s *Server) appendToNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := s.edit.Append(path, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("appended at line %d of %s", line, path)), nil
}

func (s *Server) updateFrontmatterField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	if err := s.edit.UpdateFrontmatterField(path, key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("set %s in %s", key, path)), nil
}

func (s *Server) addTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags, err := s.edit.AddTag(path, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"file_path": path, "tags": tags}), nil
}

func (s *Server) removeTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags, err := s.edit.RemoveTag(path, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"file_path": path, "tags": tags}), nil
}
