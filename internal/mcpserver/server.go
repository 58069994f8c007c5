// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes niftynet catalog tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"niftynet/internal/catalogservice"
	"niftynet/internal/models"
	"niftynet/internal/query"
)

// Server wraps the MCP server with niftynet tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalogservice.Service
}

// New creates a new MCP server with all niftynet tools registered.
func New(svc *catalogservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Niftynet",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("query_catalog",
		mcp.WithDescription("Query the website catalog: substring search, category filter, "+
			"favorites-only, noted-only, sorted by title or recency."),
		mcp.WithString("search", mcp.Description("Case-insensitive substring matched against title or URL")),
		mcp.WithString("category", mcp.Description("Category tag to filter by (see the category contract)")),
		mcp.WithString("sort", mcp.Description("Sort key: title (A-Z) or createdAt (newest first)")),
		mcp.WithBoolean("favorites", mcp.Description("Only entries favored on this device")),
		mcp.WithBoolean("noted", mcp.Description("Only entries with a device-local note")),
	), s.queryCatalog)

	s.mcp.AddTool(mcp.NewTool("add_website",
		mcp.WithDescription("Add a website to the catalog. Metadata (title, description, image) "+
			"is scraped best-effort; an unreachable page still produces an entry. "+
			"Categories should follow the niftynet://categories contract."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Website URL")),
		mcp.WithString("videoSourceUrl", mcp.Required(), mcp.Description("URL of the video that referenced the site")),
		mcp.WithString("categories", mcp.Description("Comma-separated category tags")),
		mcp.WithString("notes", mcp.Description("Optional server-side note")),
	), s.addWebsite)

	s.mcp.AddTool(mcp.NewTool("refresh_metadata",
		mcp.WithDescription("Re-scrape title, description, and image for an existing entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Catalog entry id")),
	), s.refreshMetadata)

	s.mcp.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flip the device-local favorite flag for an entry and report the new state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Catalog entry id")),
	), s.toggleFavorite)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Save the device-local note for an entry (last write wins). "+
			"An empty text is a valid note and keeps the entry in noted-only views."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Catalog entry id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
	), s.saveNote)

	// Resource: category contract.
	s.mcp.AddResource(
		mcp.NewResource("niftynet://categories", "Category Contract",
			mcp.WithResourceDescription("Fixed category enumeration and filtering semantics."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCategoryResource,
	)

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

func (s *Server) queryCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := query.Options{
		SearchText:    req.GetString("search", ""),
		SortKey:       req.GetString("sort", query.SortByTitle),
		FavoritesOnly: req.GetBool("favorites", false),
		NotedOnly:     req.GetBool("noted", false),
	}
	if cat := req.GetString("category", ""); cat != "" {
		opts.Categories = []string{cat}
	}

	entries, err := s.svc.View(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addWebsite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	video, err := req.RequireString("videoSourceUrl")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.svc.Submit(ctx, catalogservice.SubmitRequest{
		URL:            url,
		VideoSourceURL: video,
		Categories:     models.NormalizeCategories(strings.Split(req.GetString("categories", ""), ",")),
		Notes:          req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", entry.ID, entry.DisplayTitle())), nil
}

func (s *Server) refreshMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := s.svc.Refresh(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(meta, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	favored, err := s.svc.ToggleFavorite(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if favored {
		return mcp.NewToolResultText(fmt.Sprintf("favored: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("unfavored: %s", id)), nil
}

func (s *Server) saveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SaveNote(id, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("note saved: %s", id)), nil
}

func (s *Server) readCategoryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "niftynet://categories",
			MIMEType: "text/markdown",
			Text:     CategoryContract,
		},
	}, nil
}
