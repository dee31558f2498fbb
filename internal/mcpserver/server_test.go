package mcpserver

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rosales/inkwell/internal/media"
	"github.com/rosales/inkwell/internal/models"
	"github.com/rosales/inkwell/internal/noteservice"
	"github.com/rosales/inkwell/internal/summarize"
	"github.com/rosales/inkwell/internal/testutil"
)

type nopUploader struct {
	mu sync.Mutex
}

func (u *nopUploader) Upload(_ context.Context, req media.UploadRequest) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return "https://media.example/" + req.Field, nil
}

func (u *nopUploader) Remove(context.Context, string) error { return nil }

func testServer(t *testing.T) *Server {
	t.Helper()
	svc := noteservice.New(
		testutil.TestStore(t),
		media.NewPipeline(&nopUploader{}, "notes_app", 0),
		nil,
		nil,
	)
	caller := models.Identity{ID: "local", Email: "local@example.com"}
	return New(svc, summarize.New(nil, time.Second), caller)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// Handlers are invoked directly; mcp-go has no test transport.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "summarize_text":
		result, err = srv.summarizeText(ctx, req)
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
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":       "groceries",
		"description": "milk and eggs",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	text = resultText(r)
	if !strings.Contains(text, `"title": "groceries"`) {
		t.Errorf("read result = %q", text)
	}
}

func TestCreateNoteMissingTitle(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"description": "no title",
	})
	if !r.IsError {
		t.Error("expected error without title")
	}
}

func TestListNotesTool(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "create_note", map[string]interface{}{
		"title": "a", "description": "d",
	})
	callTool(t, srv, "create_note", map[string]interface{}{
		"title": "b", "description": "d",
	})

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"title": "a"`) || !strings.Contains(text, `"title": "b"`) {
		t.Errorf("list result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"id": "ghost"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestUpdateNoteTool(t *testing.T) {
	srv := testServer(t)

	created := resultText(callTool(t, srv, "create_note", map[string]interface{}{
		"title": "draft", "description": "first pass",
	}))
	id := strings.TrimPrefix(created, "created: ")

	r := callTool(t, srv, "update_note", map[string]interface{}{
		"id": id, "title": "final",
	})
	if got := resultText(r); got != "updated: "+id {
		t.Errorf("update result = %q", got)
	}

	read := resultText(callTool(t, srv, "read_note", map[string]interface{}{"id": id}))
	if !strings.Contains(read, `"title": "final"`) || !strings.Contains(read, `"description": "first pass"`) {
		t.Errorf("read after update = %q", read)
	}
}

func TestDeleteNoteTool(t *testing.T) {
	srv := testServer(t)

	created := resultText(callTool(t, srv, "create_note", map[string]interface{}{
		"title": "ephemeral", "description": "d",
	}))
	id := strings.TrimPrefix(created, "created: ")

	r := callTool(t, srv, "delete_note", map[string]interface{}{"id": id})
	if got := resultText(r); got != "deleted: "+id {
		t.Errorf("delete result = %q", got)
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	if !r.IsError {
		t.Error("expected error after delete")
	}
}

func TestSummarizeTextTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "summarize_text", map[string]interface{}{
		"text": "First thought. Second thought. Third thought.",
	})
	text := resultText(r)
	if !strings.Contains(text, `"source": "fallback"`) {
		t.Errorf("summarize result = %q", text)
	}
	if !strings.Contains(text, `"summary"`) {
		t.Errorf("summarize result = %q", text)
	}
}
