package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/readmind/internal/conversations"
	"github.com/kalambet/readmind/internal/goals"
	"github.com/kalambet/readmind/internal/progress"
	"github.com/kalambet/readmind/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Tracker       *progress.Tracker
	Goals         *goals.Store
	Conversations *conversations.Manager
	Now           func() time.Time // defaults to time.Now
}

// NewMCPServer creates an MCP server with the reading-companion tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := server.NewMCPServer(
		"readmind",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("readmind — local reading companion: session log, goals, streaks, and a Q&A assistant."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("log_session",
			mcp.WithDescription("Record today's reading session. Logging twice for the same day replaces the earlier entry."),
			mcp.WithNumber("minutes", mcp.Description("Minutes read"), mcp.Required()),
			mcp.WithNumber("pages", mcp.Description("Pages read"), mcp.Required()),
			mcp.WithString("book", mcp.Description("Book title"), mcp.Required()),
			mcp.WithString("notes", mcp.Description("Optional session notes")),
			mcp.WithString("date", mcp.Description("Session date YYYY-MM-DD (defaults to today)")),
		),
		mcpLogSession(deps),
	)

	s.AddTool(
		mcp.NewTool("reading_streak",
			mcp.WithDescription("Return the current consecutive-days reading streak."),
		),
		mcpReadingStreak(deps),
	)

	s.AddTool(
		mcp.NewTool("create_goal",
			mcp.WithDescription("Create a reading goal."),
			mcp.WithString("title", mcp.Description("Goal title"), mcp.Required()),
			mcp.WithNumber("target", mcp.Description("Target value"), mcp.Required()),
			mcp.WithString("unit", mcp.Description("One of: books, pages, minutes, hours"), mcp.Required()),
			mcp.WithString("deadline", mcp.Description("Deadline YYYY-MM-DD"), mcp.Required()),
			mcp.WithString("category", mcp.Description("One of: personal, daily, yearly, genre, skill"), mcp.Required()),
			mcp.WithString("description", mcp.Description("Optional description")),
		),
		mcpCreateGoal(deps),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the reading assistant a question, optionally continuing an existing conversation."),
			mcp.WithString("question", mcp.Description("The question text"), mcp.Required()),
			mcp.WithString("conversation_id", mcp.Description("Existing conversation to continue")),
		),
		mcpAsk(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"reading://goals",
			"Reading Goals",
			mcp.WithResourceDescription("All reading goals as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceGoals(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"reading://recent-sessions",
			"Recent Sessions",
			mcp.WithResourceDescription("Last 10 logged reading sessions"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentSessions(deps),
	)

	return s
}

func mcpLogSession(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		minutes := req.GetInt("minutes", 0)
		pages := req.GetInt("pages", 0)
		book, err := req.RequireString("book")
		if err != nil {
			return mcpError("book is required"), nil
		}

		date := req.GetString("date", "")
		if date == "" {
			date = deps.Now().Format(storage.DateLayout)
		}

		sess := storage.ReadingSession{
			Date:    date,
			Minutes: minutes,
			Pages:   pages,
			Book:    book,
			Notes:   req.GetString("notes", ""),
		}
		if err := deps.Tracker.RecordSession(sess); err != nil {
			return mcpError(fmt.Sprintf("failed to log session: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Logged %d minutes of %q on %s", minutes, book, date)), nil
	}
}

func mcpReadingStreak(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		streak, err := deps.Tracker.CurrentStreak(deps.Now())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to compute streak: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("%d", streak)), nil
	}
}

func mcpCreateGoal(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		unit, err := req.RequireString("unit")
		if err != nil {
			return mcpError("unit is required"), nil
		}
		deadline, err := req.RequireString("deadline")
		if err != nil {
			return mcpError("deadline is required"), nil
		}
		category, err := req.RequireString("category")
		if err != nil {
			return mcpError("category is required"), nil
		}

		g, err := deps.Goals.Create(goals.Input{
			Title:       title,
			Description: req.GetString("description", ""),
			TargetValue: req.GetInt("target", 0),
			Unit:        unit,
			Deadline:    deadline,
			Category:    category,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to create goal: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Created goal %s: %s (%d %s by %s)", g.ID, g.Title, g.TargetValue, g.Unit, g.Deadline)), nil
	}
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		conv, err := deps.Conversations.Ask(ctx, req.GetString("conversation_id", ""), question)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to answer: %v", err)), nil
		}

		// The answer is the last message appended.
		answer := conv.Messages[len(conv.Messages)-1]
		b, err := json.Marshal(map[string]string{
			"conversation_id": conv.ID,
			"category":        conv.Category,
			"answer":          answer.Content,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal answer: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceGoals(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := deps.Goals.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list goals: %w", err)
		}

		b, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal goals: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRecentSessions(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessions, err := deps.Tracker.ListSessions()
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) > 10 {
			sessions = sessions[:10]
		}

		b, err := json.Marshal(sessions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sessions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
