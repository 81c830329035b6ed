// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz calendar tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/calendar"
	"github.com/starford/dagaz/internal/models"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *calendar.Service
}

// New creates a new MCP server with all Dagaz tools registered.
func New(svc *calendar.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List the currently visible calendar events and tasks (the filtered view)."),
	), s.listEvents)

	s.mcp.AddTool(mcp.NewTool("get_event",
		mcp.WithDescription("Read a single visible event by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event id")),
	), s.getEvent)

	s.mcp.AddTool(mcp.NewTool("create_event",
		mcp.WithDescription("Create a calendar event or task. Times are RFC 3339. "+
			"Recurring events need pattern (daily|weekly|monthly|yearly) and interval."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, RFC 3339")),
		mcp.WithString("end", mcp.Required(), mcp.Description("End time, RFC 3339")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category id")),
		mcp.WithString("type", mcp.Description("event or task (default event)")),
		mcp.WithString("pattern", mcp.Description("Recurrence pattern, empty for one-off events")),
		mcp.WithNumber("interval", mcp.Description("Recurrence interval, steps per pattern unit")),
		mcp.WithString("until", mcp.Description("Recurrence end date, RFC 3339")),
	), s.createEvent)

	s.mcp.AddTool(mcp.NewTool("search_events",
		mcp.WithDescription("Search events by title, description, or category name. "+
			"Matches in hidden categories are included."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEvents)

	s.mcp.AddTool(mcp.NewTool("check_slot",
		mcp.WithDescription("Check whether a 30-minute scheduling slot is free on a given day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day, YYYY-MM-DD")),
		mcp.WithNumber("hour", mcp.Required(), mcp.Description("Slot hour, 0-23")),
		mcp.WithNumber("minutes", mcp.Description("Slot minutes, 0-59")),
	), s.checkSlot)

	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completed flag of a task."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
	), s.toggleTask)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listEvents(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Events(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEvent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ev, ok := s.svc.EventByID(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(ev, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createEvent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := requireTime(req, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := requireTime(req, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := models.EventInput{
		Title:      title,
		Start:      start,
		End:        end,
		CategoryID: category,
		Type:       models.EventType(req.GetString("type", string(models.TypeEvent))),
	}
	if pattern := req.GetString("pattern", ""); pattern != "" {
		in.Recurring = true
		in.Pattern = models.RecurrencePattern(pattern)
		in.Interval = int(req.GetFloat("interval", 1))
		if until := req.GetString("until", ""); until != "" {
			t, err := time.Parse(time.RFC3339, until)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("until: %v", err)), nil
			}
			in.RecurrenceEnd = &t
		}
	}

	ev, err := s.svc.CreateEvent(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", ev.ID)), nil
}

func (s *Server) searchEvents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.svc.Search(query)
	results := s.svc.Events()
	// Restore the standard view before answering so a tool call does not
	// leave a stale search filter behind.
	s.svc.Search("")

	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) checkSlot(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, s.svc.Location())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("date: %v", err)), nil
	}
	hour, err := req.RequireFloat("hour")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minutes := req.GetFloat("minutes", 0)

	if s.svc.IsTimeSlotAvailable(date, int(hour), int(minutes)) {
		return mcp.NewToolResultText("available"), nil
	}
	return mcp.NewToolResultText("blocked"), nil
}

func (s *Server) toggleTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.ToggleTaskCompletion(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("toggled: %s", id)), nil
}

func requireTime(req mcp.CallToolRequest, key string) (time.Time, error) {
	v, err := req.RequireString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %v", key, err)
	}
	return t, nil
}
