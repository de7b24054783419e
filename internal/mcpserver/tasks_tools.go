package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/tasks"
)

func (s *Server) registerTaskTools() {
	s.mcp.AddTool(mcp.NewTool("search_tasks",
		mcp.WithDescription("Search tasks across the whole vault with filters and sorting. "+
			"All filters combine with AND."),
		mcp.WithString("status", mcp.Description("Filter: incomplete, completed, or all")),
		mcp.WithString("priority", mcp.Description("Filter: highest, high, normal, low, lowest")),
		mcp.WithString("due_before", mcp.Description("Filter: due strictly before YYYY-MM-DD")),
		mcp.WithString("due_after", mcp.Description("Filter: due strictly after YYYY-MM-DD")),
		mcp.WithNumber("due_within_days", mcp.Description("Filter: due within N days from today (inclusive)")),
		mcp.WithString("scheduled_on", mcp.Description("Filter: scheduled exactly on YYYY-MM-DD")),
		mcp.WithBoolean("has_recurrence", mcp.Description("Filter: only recurring (true) or non-recurring (false) tasks")),
		mcp.WithString("tag", mcp.Description("Filter: inline #tag on the task")),
		mcp.WithString("content", mcp.Description("Filter: case-insensitive substring of the task text")),
		mcp.WithString("sort_by", mcp.Description("Sort field: due_date, priority, file, line_number")),
		mcp.WithString("sort_order", mcp.Description("asc (default) or desc")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 100)")),
	), s.searchTasks)

	s.mcp.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task line in a note, with optional emoji metadata."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note to add the task to")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Task text")),
		mcp.WithString("priority", mcp.Description("highest, high, normal, low, lowest")),
		mcp.WithString("due_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("scheduled_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("recurrence", mcp.Description("Recurrence rule, must start with 'every'")),
		mcp.WithString("insert_at", mcp.Description("end (default), top, or after_heading")),
		mcp.WithString("heading", mcp.Description("Target heading for insert_at=after_heading")),
	), s.createTask)

	s.mcp.AddTool(mcp.NewTool("toggle_task_status",
		mcp.WithDescription("Toggle a task between incomplete and completed by line number."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note containing the task")),
		mcp.WithNumber("line_number", mcp.Required(), mcp.Description("1-based line number of the task")),
		mcp.WithBoolean("add_done_date", mcp.Description("Stamp today's done date on completion (default true)")),
	), s.toggleTask)

	s.mcp.AddTool(mcp.NewTool("update_task_metadata",
		mcp.WithDescription("Rewrite a task line's metadata. Omitted fields stay untouched; "+
			"an empty string clears a field."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Note containing the task")),
		mcp.WithNumber("line_number", mcp.Required(), mcp.Description("1-based line number of the task")),
		mcp.WithString("priority", mcp.Description("highest, high, normal, low, lowest")),
		mcp.WithString("due_date", mcp.Description("YYYY-MM-DD or empty to clear")),
		mcp.WithString("scheduled_date", mcp.Description("YYYY-MM-DD or empty to clear")),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD or empty to clear")),
		mcp.WithString("recurrence", mcp.Description("Recurrence rule or empty to clear")),
	), s.updateTaskMetadata)

	s.mcp.AddTool(mcp.NewTool("get_task_statistics",
		mcp.WithDescription("Aggregate task counts for a note or the whole vault."),
		mcp.WithString("scope", mcp.Description("note or vault (default vault)")),
		mcp.WithString("file_path", mcp.Description("Note path, required for scope=note")),
		mcp.WithString("group_by", mcp.Description("Optional grouping: priority, status, file")),
	), s.taskStatistics)
}

// toolDate parses an optional YYYY-MM-DD tool argument.
func toolDate(req mcp.CallToolRequest, name string) (models.Date, error) {
	raw := req.GetString(name, "")
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return d, nil
}

func (s *Server) searchTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := tasks.Filter{
		Status:   tasks.Status(req.GetString("status", "")),
		Priority: tasks.Priority(req.GetString("priority", "")),
		Tag:      req.GetString("tag", ""),
		Content:  req.GetString("content", ""),
	}
	var err error
	if f.DueBefore, err = toolDate(req, "due_before"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if f.DueAfter, err = toolDate(req, "due_after"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if f.ScheduledOn, err = toolDate(req, "scheduled_on"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n := req.GetInt("due_within_days", -1); n >= 0 {
		f.DueWithinDays = &n
	}
	if args := req.GetArguments(); args != nil {
		if _, set := args["has_recurrence"]; set {
			v := req.GetBool("has_recurrence", false)
			f.HasRecurrence = &v
		}
	}

	res, err := s.tasks.Search(ctx, f,
		req.GetString("sort_by", ""),
		req.GetString("sort_order", "") == "desc",
		req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) createTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cr := tasks.CreateRequest{
		Path:       path,
		Content:    content,
		Priority:   tasks.Priority(req.GetString("priority", "")),
		Recurrence: req.GetString("recurrence", ""),
		InsertAt:   req.GetString("insert_at", ""),
		Heading:    req.GetString("heading", ""),
	}
	if cr.DueDate, err = toolDate(req, "due_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cr.ScheduledDate, err = toolDate(req, "scheduled_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cr.StartDate, err = toolDate(req, "start_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.tasks.Create(cr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) toggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.tasks.Toggle(path, line, req.GetBool("add_done_date", true))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) updateTaskMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	var u tasks.MetadataUpdate
	if _, set := args["priority"]; set {
		p := tasks.Priority(req.GetString("priority", ""))
		u.Priority = &p
	}
	dateArg := func(name string) (*models.Date, error) {
		if _, set := args[name]; !set {
			return nil, nil
		}
		d, err := toolDate(req, name)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	if u.DueDate, err = dateArg("due_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if u.ScheduledDate, err = dateArg("scheduled_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if u.StartDate, err = dateArg("start_date"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, set := args["recurrence"]; set {
		r := req.GetString("recurrence", "")
		u.Recurrence = &r
	}

	res, err := s.tasks.UpdateMetadata(path, line, u)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) taskStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := req.GetString("scope", tasks.ScopeVault)
	st, err := s.tasks.Statistics(ctx, scope, req.GetString("file_path", ""), req.GetString("group_by", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st), nil
}
