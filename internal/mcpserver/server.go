// Package mcpserver exposes the link-blog operations as MCP (Model Context
// Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/drafts"
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/models"
)

// LinkFormatURI names the link format resource.
const LinkFormatURI = "linkblog://link-format"

// Server wraps the MCP server with link-blog tools.
type Server struct {
	mcp *server.MCPServer
	svc *linkservice.Service
	cfg drafts.Config
}

// New creates an MCP server with all tools registered.
func New(svc *linkservice.Service, cfg drafts.Config, version string) *Server {
	s := &Server{svc: svc, cfg: cfg}

	s.mcp = server.NewMCPServer(
		"linkblog",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List link-blog categories in display order with their id and anchor."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Append a category. The anchor is derived from the name when omitted. "+
			"Drafts only receive links for a category once they contain its section marker."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name, e.g. \"DevOps, Observability & Security\"")),
		mcp.WithString("anchor", mcp.Description("Optional section anchor, e.g. devops")),
	), s.createCategory)

	s.mcp.AddTool(mcp.NewTool("add_link",
		mcp.WithDescription("Add a link to the section of a draft that belongs to a category. "+
			"Fails when the URL already appears in the draft. Read "+LinkFormatURI+" for the line format."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Link URL")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title, used as link text")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category id or anchor")),
		mcp.WithString("selected", mcp.Description("Optional quoted text used as link text instead of the title")),
		mcp.WithString("target", mcp.Description("Draft file relative to the drafts directory; discovered when omitted")),
		mcp.WithString("checksum", mcp.Description("Optional SHA-256 of the draft as last read; the edit is refused if the draft changed since")),
	), s.addLink)

	s.mcp.AddTool(mcp.NewTool("list_drafts",
		mcp.WithDescription("List drafts whose front matter carries the configured category."),
	), s.listDrafts)

	s.mcp.AddResource(
		mcp.NewResource(LinkFormatURI, "Link Format",
			mcp.WithResourceDescription("How links and section markers look inside a draft."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkFormatResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Categories(ctx))
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.svc.CreateCategory(ctx, name, req.GetString("anchor", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) addLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cat, err := s.svc.FindCategory(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, candidates, err := s.cfg.Target(req.GetString("target", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if target == "" {
		names := make([]string, len(candidates))
		for i, d := range candidates {
			names[i] = d.Filename
		}
		return mcp.NewToolResultError(fmt.Sprintf("several drafts match, pass target: %s", strings.Join(names, ", "))), nil
	}

	link := models.Link{URL: url, Title: title, Selected: req.GetString("selected", "")}
	res, err := s.svc.AddLink(ctx, linkservice.AddRequest{
		Link:     link,
		Category: cat,
		Target:   target,
		IfMatch:  req.GetString("checksum", ""),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrSectionNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("%v; add the line by hand: %s", err, link.Line())), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) listDrafts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found, err := drafts.Discover(s.cfg.Dir, s.cfg.Category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(found) == 0 {
		return mcp.NewToolResultText("no drafts found"), nil
	}
	return jsonResult(found)
}

func (s *Server) readLinkFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      LinkFormatURI,
			MIMEType: "text/markdown",
			Text:     LinkFormatContract,
		},
	}, nil
}
