// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the content-repurposing tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/echome/internal/extract"
	"github.com/starford/echome/internal/llm"
	"github.com/starford/echome/internal/metadata"
)

// Server wraps the MCP server with the repurposing tools. The generator
// is optional; without it generate_content reports a tool error.
type Server struct {
	mcp       *server.MCPServer
	resolver  *metadata.Resolver
	generator *llm.Generator
}

// New creates a new MCP server with all tools registered.
func New(resolver *metadata.Resolver, generator *llm.Generator) *Server {
	s := &Server{resolver: resolver, generator: generator}

	s.mcp = server.NewMCPServer(
		"EchoMe",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_metadata",
		mcp.WithDescription("Resolve canonical content metadata for an input file, "+
			"merging filename inference, the automatic classifier, a sidecar "+
			".meta.yaml if present, and explicit overrides. Read the "+
			"get_frontmatter_contract tool or the echome://frontmatter resource "+
			"for the field semantics."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the input file")),
		mcp.WithString("source", mcp.Description("Override for source (meeting|interview|memo|webinar|unknown)")),
		mcp.WithString("type", mcp.Description("Override for type (minutes|transcript|note|summary|general)")),
		mcp.WithString("date", mcp.Description("Override for date (YYYY-MM-DD)")),
		mcp.WithString("topics", mcp.Description("Override for topics, comma-separated")),
		mcp.WithString("summary", mcp.Description("Override for summary")),
	), s.resolveMetadata)

	s.mcp.AddTool(mcp.NewTool("extract_text",
		mcp.WithDescription("Extract plain text from an input artifact (.txt, .md, .docx, or text-layer .pdf)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the input file")),
	), s.extractText)

	s.mcp.AddTool(mcp.NewTool("generate_content",
		mcp.WithDescription("Generate one output shape (blog, x_post, or linkedin) from source text."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Source text to repurpose")),
		mcp.WithString("shape", mcp.Required(), mcp.Description("Output shape: blog, x_post, or linkedin")),
	), s.generateContent)

	s.mcp.AddTool(mcp.NewTool("get_frontmatter_contract",
		mcp.WithDescription("Returns the canonical metadata frontmatter contract. "+
			"Call this before preparing sidecar files or interpreting drafts."),
	), s.getFrontmatterContract)

	// Resource: frontmatter contract.
	s.mcp.AddResource(
		mcp.NewResource("echome://frontmatter", "Content Metadata Contract",
			mcp.WithResourceDescription("Canonical metadata frontmatter and sidecar format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFrontmatterResource,
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

func (s *Server) resolveMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	var ov metadata.Overrides
	if v, err := req.RequireString("source"); err == nil {
		ov.Source = v
	}
	if v, err := req.RequireString("type"); err == nil {
		ov.Type = v
	}
	if v, err := req.RequireString("date"); err == nil {
		ov.Date = v
	}
	if v, err := req.RequireString("summary"); err == nil {
		ov.Summary = v
	}
	if v, err := req.RequireString("topics"); err == nil && v != "" {
		ov.Topics = metadata.ParseTopics(v)
	}

	// Best-effort content for the classifier layer; extraction failures
	// just leave it empty.
	content := ""
	if extract.Supported(filepath.Ext(path)) {
		if text, extractErr := extract.Text(path); extractErr == nil {
			content = text
		}
	}

	meta := s.resolver.Resolve(ctx, path, ov, content, true)
	out, _ := json.MarshalIndent(meta, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) extractText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := extract.Text(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) generateContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.generator == nil {
		return mcp.NewToolResultError("generator not configured: set ANTHROPIC_API_KEY"), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	shape, err := req.RequireString("shape")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.generator.Generate(ctx, content, llm.Shape(shape))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) getFrontmatterContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FrontmatterContract), nil
}

func (s *Server) readFrontmatterResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "echome://frontmatter",
			MIMEType: "text/markdown",
			Text:     FrontmatterContract,
		},
	}, nil
}
