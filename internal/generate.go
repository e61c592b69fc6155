package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/starford/echome/internal/apperr"
	"github.com/starford/echome/internal/history"
	"github.com/starford/echome/internal/metadata"
	"github.com/starford/echome/internal/pipeline"
)

// GenerateParams carries the CLI inputs for a single-file run.
type GenerateParams struct {
	InputPath   string
	OutputDir   string
	Timestamped bool
	Overrides   metadata.Overrides
}

// RunGenerate executes the single-file pipeline for the CLI, printing
// progress to stdout. It returns an error for the caller to map to an
// exit code.
func RunGenerate(ctx context.Context, cfg *Config, params GenerateParams) error {
	initLogger(cfg)

	if _, err := os.Stat(params.InputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	pipe, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	outDir := params.OutputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	fmt.Printf("Processing %s\n", params.InputPath)
	paths, meta, err := pipe.ProcessFile(ctx, params.InputPath, params.Overrides, outDir, params.Timestamped)
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("Metadata: source=%s type=%s date=%s topics=%v\n",
		meta.Source, meta.Type, meta.Date, meta.Topics)
	fmt.Println("Outputs:")
	fmt.Printf("  %s\n", paths.Blog)
	fmt.Printf("  %s\n", paths.XPost)
	fmt.Printf("  %s\n", paths.LinkedIn)
	return nil
}

// describeFailure attaches a human hint to the well-known failure modes.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, apperr.ErrScannedPDF):
		return fmt.Errorf("%w (run OCR on the PDF first)", err)
	case errors.Is(err, apperr.ErrUnsupportedFormat):
		return fmt.Errorf("%w (supported: .txt, .md, .docx, .pdf)", err)
	case errors.Is(err, apperr.ErrMissingCredential):
		return fmt.Errorf("%w (set ANTHROPIC_API_KEY)", err)
	default:
		return err
	}
}

// RunPromote executes the approval-promotion flow for the CLI.
func RunPromote(ctx context.Context, cfg *Config) error {
	initLogger(cfg)

	pipe, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if !cfg.Drive.Enabled() || !cfg.Notion.Enabled() {
		return fmt.Errorf("promote requires Drive and Notion configuration: %w", apperr.ErrMissingCredential)
	}

	posted, errs := pipe.PromoteApproved(ctx)
	for _, name := range posted {
		fmt.Printf("Published: %s\n", name)
	}
	for _, e := range errs {
		fmt.Printf("Failed: %s (%s)\n", e.Name, e.Error)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d draft(s) failed to publish", len(errs))
	}
	return nil
}

// RunBatch executes one remote batch run for the CLI.
func RunBatch(ctx context.Context, cfg *Config) error {
	initLogger(cfg)

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	pipe, err := buildPipeline(ctx, cfg, pipeline.WithLedger(db))
	if err != nil {
		return err
	}
	if !cfg.Drive.Enabled() {
		return fmt.Errorf("batch requires Drive configuration: %w", apperr.ErrMissingCredential)
	}

	report, err := pipe.RunBatch(ctx)
	if err != nil {
		return err
	}
	fmt.Println(report.Message)
	for _, r := range report.Processed {
		fmt.Printf("  ok: %s\n", r.Name)
	}
	for _, e := range report.Errors {
		fmt.Printf("  failed: %s (%s)\n", e.Name, e.Error)
	}
	return nil
}
