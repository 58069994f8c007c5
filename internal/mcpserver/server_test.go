package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"niftynet/internal/catalogservice"
	"niftynet/internal/metadata"
	"niftynet/internal/testutil"
)

type stubEnricher struct {
	result metadata.Result
}

func (s *stubEnricher) Extract(_ context.Context, _ string) metadata.Result {
	return s.result
}

func testServer(t *testing.T, enricher catalogservice.Enricher) (*Server, *catalogservice.Service) {
	t.Helper()

	db := testutil.TestDB(t)
	_, profile := testutil.TestProfile(t)

	svc := catalogservice.NewService(db, enricher, profile, nil)
	srv := New(svc)
	return srv, svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "query_catalog":
		result, err = srv.queryCatalog(ctx, req)
	case "add_website":
		result, err = srv.addWebsite(ctx, req)
	case "refresh_metadata":
		result, err = srv.refreshMetadata(ctx, req)
	case "toggle_favorite":
		result, err = srv.toggleFavorite(ctx, req)
	case "save_note":
		result, err = srv.saveNote(ctx, req)
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

func TestAddAndQueryWebsite(t *testing.T) {
	srv, _ := testServer(t, &stubEnricher{result: metadata.Result{Title: "Example Site"}})

	r := callTool(t, srv, "add_website", map[string]interface{}{
		"url":            "https://example.com",
		"videoSourceUrl": "https://youtube.com/watch?v=1",
		"categories":     "coding,useful",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("add result = %q", text)
	}
	if !strings.Contains(text, "Example Site") {
		t.Errorf("add result should mention the scraped title, got %q", text)
	}

	r = callTool(t, srv, "query_catalog", map[string]interface{}{
		"search": "example",
	})
	text = resultText(r)
	if !strings.Contains(text, "https://example.com") {
		t.Errorf("query result missing entry: %q", text)
	}
}

func TestAddWebsiteMissingURL(t *testing.T) {
	srv, _ := testServer(t, &stubEnricher{})

	r := callTool(t, srv, "add_website", map[string]interface{}{
		"videoSourceUrl": "https://youtube.com/watch?v=1",
	})
	if !r.IsError {
		t.Error("expected error for missing url")
	}
}

func TestAddWebsiteNormalizesCategoryList(t *testing.T) {
	srv, svc := testServer(t, &stubEnricher{})

	callTool(t, srv, "add_website", map[string]interface{}{
		"url":            "https://c.dev",
		"videoSourceUrl": "https://youtube.com/c",
		"categories":     " coding , useful ,coding,",
	})

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	want := []string{"coding", "useful"}
	got := entries[0].Categories
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestQueryCatalogCategoryFilter(t *testing.T) {
	srv, _ := testServer(t, &stubEnricher{})

	callTool(t, srv, "add_website", map[string]interface{}{
		"url":            "https://a.dev",
		"videoSourceUrl": "https://youtube.com/a",
		"categories":     "coding",
	})
	callTool(t, srv, "add_website", map[string]interface{}{
		"url":            "https://b.dev",
		"videoSourceUrl": "https://youtube.com/b",
		"categories":     "gaming",
	})

	r := callTool(t, srv, "query_catalog", map[string]interface{}{
		"category": "gaming",
	})
	text := resultText(r)
	if strings.Contains(text, "https://a.dev") || !strings.Contains(text, "https://b.dev") {
		t.Errorf("category filter wrong: %q", text)
	}
}

func TestRefreshMetadataUnknownID(t *testing.T) {
	srv, _ := testServer(t, &stubEnricher{})

	r := callTool(t, srv, "refresh_metadata", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for unknown id")
	}
}

func TestToggleFavoriteAndNotedQuery(t *testing.T) {
	srv, svc := testServer(t, &stubEnricher{})

	entry, err := svc.Submit(context.Background(), catalogservice.SubmitRequest{
		URL:            "https://fav.dev",
		VideoSourceURL: "https://youtube.com/f",
	})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "toggle_favorite", map[string]interface{}{"id": entry.ID})
	if got := resultText(r); got != "favored: "+entry.ID {
		t.Errorf("toggle result = %q", got)
	}

	r = callTool(t, srv, "query_catalog", map[string]interface{}{"favorites": true})
	if !strings.Contains(resultText(r), "https://fav.dev") {
		t.Error("favorites query missing favored entry")
	}

	r = callTool(t, srv, "toggle_favorite", map[string]interface{}{"id": entry.ID})
	if got := resultText(r); got != "unfavored: "+entry.ID {
		t.Errorf("second toggle result = %q", got)
	}
}

func TestSaveNote(t *testing.T) {
	srv, svc := testServer(t, &stubEnricher{})

	entry, err := svc.Submit(context.Background(), catalogservice.SubmitRequest{
		URL:            "https://noted.dev",
		VideoSourceURL: "https://youtube.com/n",
	})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "save_note", map[string]interface{}{
		"id":   entry.ID,
		"text": "watch the second half",
	})
	if got := resultText(r); got != "note saved: "+entry.ID {
		t.Errorf("save result = %q", got)
	}

	r = callTool(t, srv, "query_catalog", map[string]interface{}{"noted": true})
	if !strings.Contains(resultText(r), "https://noted.dev") {
		t.Error("noted query missing entry")
	}
}

func TestCategoryResource(t *testing.T) {
	srv, _ := testServer(t, &stubEnricher{})

	contents, err := srv.readCategoryResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents length = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatal("expected TextResourceContents")
	}
	if !strings.Contains(tc.Text, "coding") {
		t.Error("category contract should list the coding tag")
	}
}
