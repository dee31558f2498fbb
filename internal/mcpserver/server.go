// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Inkwell note tools for LLM integration via stdio transport.
//
// The stdio transport carries no bearer credential, so every tool acts as the
// configured local identity.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rosales/inkwell/internal/models"
	"github.com/rosales/inkwell/internal/noteservice"
	"github.com/rosales/inkwell/internal/summarize"
)

// Server wraps the MCP server with Inkwell tools.
type Server struct {
	mcp        *server.MCPServer
	svc        *noteservice.Service
	summarizer *summarize.Service
	caller     models.Identity
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service, summarizer *summarize.Service, caller models.Identity) *Server {
	s := &Server{svc: svc, summarizer: summarizer, caller: caller}

	s.mcp = server.NewMCPServer(
		"Inkwell",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the caller's notes, newest first."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Title and description are required; "+
			"attachments can only be added through the HTTP API."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Note body text")),
		mcp.WithString("date", mcp.Description("Optional date (RFC 3339 or YYYY-MM-DD)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update a note's title, description, or date. "+
			"Omitted fields keep their current value."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New body text")),
		mcp.WithString("date", mcp.Description("New date (RFC 3339 or YYYY-MM-DD)")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id. Its remote attachments are removed as well."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("summarize_text",
		mcp.WithDescription("Summarize text, preferring the remote model with a local fallback."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
	), s.summarizeText)

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

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.List(ctx, &s.caller)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Get(ctx, &s.caller, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := noteservice.CreateInput{
		Title:       title,
		Description: description,
	}
	if raw, rawErr := req.RequireString("date"); rawErr == nil {
		in.Date = noteservice.ParseDate(raw)
	}

	note, err := s.svc.Create(ctx, &s.caller, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var in noteservice.UpdateInput
	if v, vErr := req.RequireString("title"); vErr == nil {
		in.Title = v
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		in.Description = v
	}
	if v, vErr := req.RequireString("date"); vErr == nil {
		in.Date = noteservice.ParseDate(v)
	}

	note, err := s.svc.Update(ctx, &s.caller, id, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", note.ID)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, &s.caller, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) summarizeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, source := s.summarizer.Summarize(ctx, text)
	out, _ := json.MarshalIndent(map[string]string{
		"summary": summary,
		"source":  source,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
