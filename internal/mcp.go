package internal

import (
	"context"
	"log/slog"
	"os"

	"github.com/starford/echome/internal/llm"
	"github.com/starford/echome/internal/mcpserver"
	"github.com/starford/echome/internal/metadata"
)

// RunMCP serves the MCP tools over stdio. The model-backed tools
// (classifier layer, generate_content) are enabled only when an API key
// is configured; metadata resolution and extraction work without one.
func RunMCP(_ context.Context, cfg *Config) error {
	// Logs go to stderr: stdout carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	var classifier *metadata.Classifier
	var generator *llm.Generator
	if cfg.Anthropic.APIKey != "" {
		client, err := llm.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
		if err != nil {
			return err
		}
		classifier = metadata.NewClassifier(client)
		generator = llm.NewGenerator(client)
	}

	srv := mcpserver.New(metadata.NewResolver(classifier), generator)
	slog.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}
