package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/echome/internal"
	"github.com/starford/echome/internal/metadata"
	pkgconfig "github.com/starford/echome/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: generate <input-file>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := internal.GenerateParams{
		InputPath:   cmd.Args().First(),
		OutputDir:   cmd.String("output"),
		Timestamped: !cmd.Bool("no-timestamp"),
		Overrides: metadata.Overrides{
			Source:  cmd.String("source"),
			Type:    cmd.String("type"),
			Date:    cmd.String("date"),
			Summary: cmd.String("summary"),
		},
	}
	if topics := cmd.String("topics"); topics != "" {
		params.Overrides.Topics = metadata.ParseTopics(topics)
	}

	return internal.RunGenerate(ctx, cfg, params)
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if inbox := cmd.String("inbox"); inbox != "" {
		cfg.Inbox.Dir = inbox
	}
	return internal.RunWatch(ctx, cfg)
}

func batchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunBatch(ctx, cfg)
}

func promoteAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunPromote(ctx, cfg)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "echome",
		Usage: "Repurpose text artifacts into blog, X, and LinkedIn drafts",
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Process a single local file",
				ArgsUsage: "<input-file>",
				Action:    generateAction,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Override content source"},
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Override content type"},
					&cli.StringFlag{Name: "date", Usage: "Override content date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "topics", Usage: "Override topics, comma-separated"},
					&cli.StringFlag{Name: "summary", Usage: "Override summary"},
					&cli.BoolFlag{Name: "no-timestamp", Usage: "Write outputs directly into the output directory"},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP service",
				Action: serveAction,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "watch",
				Usage:  "Watch a local inbox directory and process new files",
				Action: watchAction,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "inbox", Usage: "Inbox directory to watch"},
				},
			},
			{
				Name:   "batch",
				Usage:  "Run one remote batch over the Drive input folder",
				Action: batchAction,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "promote",
				Usage:  "Publish approved drafts to Notion",
				Action: promoteAction,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools over stdio",
				Action: mcpAction,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
