// Package pipeline orchestrates content repurposing: extracting text
// from an input artifact, resolving its metadata, generating the three
// output shapes, and writing or uploading the results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/echome/internal/checksum"
	"github.com/starford/echome/internal/drive"
	"github.com/starford/echome/internal/events"
	"github.com/starford/echome/internal/extract"
	"github.com/starford/echome/internal/history"
	"github.com/starford/echome/internal/llm"
	"github.com/starford/echome/internal/metadata"
	"github.com/starford/echome/internal/notify"
	"github.com/starford/echome/internal/notion"
	"github.com/starford/echome/internal/output"
)

// uploadTimestampLayout names uploaded drafts; it matches the local
// output directory timestamp.
const uploadTimestampLayout = "20060102_150405"

// Remote abstracts the Drive operations the batch run needs, so the
// batch logic can be tested against an in-memory fake.
type Remote interface {
	ListUnprocessed(ctx context.Context) ([]drive.RemoteFile, error)
	ListApproved(ctx context.Context) ([]drive.RemoteFile, error)
	Download(ctx context.Context, fileID, localPath string) error
	Upload(ctx context.Context, localPath, name, folderID, mimeType string) (string, error)
	MarkProcessed(ctx context.Context, fileID, originalName string) error
	Move(ctx context.Context, fileID, toFolder string) error
	Folders() drive.Folders
}

// Publisher abstracts the Notion page creation used by promotion.
type Publisher interface {
	CreatePage(ctx context.Context, title, markdown string) (string, error)
}

// FileResult is one successfully processed input.
type FileResult struct {
	Name    string   `json:"name"`
	Outputs []string `json:"outputs"`
}

// FileError is one failed input; the batch continues past it.
type FileError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Report summarizes a batch run.
type Report struct {
	Processed    []FileResult `json:"processed"`
	Errors       []FileError  `json:"errors"`
	NotionPosted []string     `json:"notion_posted"`
	Message      string       `json:"message"`
	Timestamp    string       `json:"timestamp"`
}

// Pipeline wires the processing stages together. Remote, Publisher,
// Notifier, Broker, and Ledger are optional; absent collaborators
// disable the corresponding stage.
type Pipeline struct {
	generator *llm.Generator
	resolver  *metadata.Resolver
	remote    Remote
	publisher Publisher
	notifier  *notify.Notifier
	broker    *events.Broker
	ledger    history.Ledger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRemote enables the Drive batch stages.
func WithRemote(r Remote) Option { return func(p *Pipeline) { p.remote = r } }

// WithPublisher enables approval promotion to Notion.
func WithPublisher(pub Publisher) Option { return func(p *Pipeline) { p.publisher = pub } }

// WithNotifier enables webhook notifications.
func WithNotifier(n *notify.Notifier) Option { return func(p *Pipeline) { p.notifier = n } }

// WithBroker enables progress events.
func WithBroker(b *events.Broker) Option { return func(p *Pipeline) { p.broker = b } }

// WithLedger enables run history persistence.
func WithLedger(l history.Ledger) Option { return func(p *Pipeline) { p.ledger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// New builds a Pipeline around the generator and resolver, which are
// always required.
func New(gen *llm.Generator, resolver *metadata.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: gen,
		resolver:  resolver,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile runs the single-file flow: extract text, generate the
// three shapes, resolve metadata (classifier enabled), prepend
// frontmatter to the blog draft, and write the outputs under baseDir.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath string, ov metadata.Overrides, baseDir string, timestamped bool) (output.Paths, metadata.ContentMetadata, error) {
	content, err := extract.Text(inputPath)
	if err != nil {
		return output.Paths{}, metadata.ContentMetadata{}, err
	}

	var set output.Set
	for _, shape := range llm.Shapes() {
		text, err := p.generator.Generate(ctx, content, shape)
		if err != nil {
			return output.Paths{}, metadata.ContentMetadata{}, err
		}
		switch shape {
		case llm.ShapeBlog:
			set.Blog = text
		case llm.ShapeXPost:
			set.XPost = text
		case llm.ShapeLinkedIn:
			set.LinkedIn = text
		}
	}

	meta := p.resolver.Resolve(ctx, inputPath, ov, content, true)
	set.Blog = meta.Prepend(set.Blog)

	paths, err := output.Write(set, baseDir, timestamped)
	if err != nil {
		return output.Paths{}, meta, err
	}
	return paths, meta, nil
}

// RunBatch lists unprocessed Drive inputs, processes each in isolation,
// uploads the drafts, marks sources processed, then promotes approved
// drafts to Notion. Per-file failures are recorded and the batch moves
// on; listing failures abort the run.
func (p *Pipeline) RunBatch(ctx context.Context) (*Report, error) {
	started := p.now()
	report := &Report{
		Processed:    []FileResult{},
		Errors:       []FileError{},
		NotionPosted: []string{},
		Timestamp:    started.UTC().Format(time.RFC3339),
	}
	if p.remote == nil {
		report.Message = "remote storage not configured"
		return report, nil
	}

	p.publish(events.Event{Type: events.TypeRunStarted, Data: map[string]string{"mode": "batch"}})

	files, err := p.remote.ListUnprocessed(ctx)
	if err != nil {
		report.Message = err.Error()
		p.notifyError(ctx, err, "batch listing", "")
		p.finishRun(started, "batch", report)
		return report, fmt.Errorf("pipeline: list unprocessed: %w", err)
	}
	slog.Info("batch run started", slog.Int("files", len(files)))

	var records []history.FileRecord
	for _, f := range files {
		p.publishFile(events.TypeFileStarted, f.Name)
		result, rec, err := p.processRemote(ctx, f)
		records = append(records, rec)
		if err != nil {
			slog.Error("file processing failed",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			report.Errors = append(report.Errors, FileError{Name: f.Name, Error: err.Error()})
			p.publishFile(events.TypeFileFailed, f.Name)
			p.notifyError(ctx, err, "batch processing", f.Name)
			continue
		}
		report.Processed = append(report.Processed, result)
		p.publishFile(events.TypeFileCompleted, f.Name)
	}

	if p.publisher != nil {
		posted, promoteErrs := p.PromoteApproved(ctx)
		report.NotionPosted = append(report.NotionPosted, posted...)
		report.Errors = append(report.Errors, promoteErrs...)
	}

	report.Message = fmt.Sprintf("processed %d file(s), %d error(s)",
		len(report.Processed), len(report.Errors))
	p.recordRun(started, "batch", report, records)
	p.finishRun(started, "batch", report)
	return report, nil
}

// processRemote downloads one remote input into a fresh temp dir, runs
// the single-file flow, uploads the drafts, and marks the source
// processed.
func (p *Pipeline) processRemote(ctx context.Context, f drive.RemoteFile) (FileResult, history.FileRecord, error) {
	rec := history.FileRecord{FileName: f.Name, Status: history.StatusFailed}

	tmpDir, err := os.MkdirTemp("", "echome-batch-*")
	if err != nil {
		rec.Error = err.Error()
		return FileResult{}, rec, fmt.Errorf("pipeline: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	localName := f.Name
	if filepath.Ext(localName) == "" {
		localName += drive.ExtensionForMIME(f.MIMEType)
	}
	localPath := filepath.Join(tmpDir, localName)
	if err := p.remote.Download(ctx, f.ID, localPath); err != nil {
		rec.Error = err.Error()
		return FileResult{}, rec, err
	}
	if data, err := os.ReadFile(localPath); err == nil {
		rec.Checksum = checksum.Sum(data)
	}

	outDir := filepath.Join(tmpDir, "out")
	paths, _, err := p.ProcessFile(ctx, localPath, metadata.Overrides{}, outDir, false)
	if err != nil {
		rec.Error = err.Error()
		return FileResult{}, rec, err
	}

	base := strings.TrimSuffix(localName, filepath.Ext(localName))
	ts := p.now().Format(uploadTimestampLayout)
	uploads := []struct {
		local string
		name  string
		mime  string
	}{
		{paths.Blog, fmt.Sprintf("%s_%s_%s", base, ts, output.FileBlog), "text/markdown"},
		{paths.XPost, fmt.Sprintf("%s_%s_%s", base, ts, output.FileXPost), "text/plain"},
		{paths.LinkedIn, fmt.Sprintf("%s_%s_%s", base, ts, output.FileLinkedIn), "text/plain"},
	}
	var uploaded []string
	for _, u := range uploads {
		if _, err := p.remote.Upload(ctx, u.local, u.name, "", u.mime); err != nil {
			rec.Error = err.Error()
			return FileResult{}, rec, err
		}
		uploaded = append(uploaded, u.name)
	}

	if err := p.remote.MarkProcessed(ctx, f.ID, f.Name); err != nil {
		rec.Error = err.Error()
		return FileResult{}, rec, err
	}

	if p.notifier != nil {
		p.notifier.SendReview(ctx, uploaded, f.Name)
	}

	rec.Status = history.StatusOK
	rec.Outputs = uploaded
	return FileResult{Name: f.Name, Outputs: uploaded}, rec, nil
}

// PromoteApproved publishes each approved draft as a Notion page and
// moves it to the posted folder. Per-file failures are collected and
// promotion continues.
func (p *Pipeline) PromoteApproved(ctx context.Context) ([]string, []FileError) {
	if p.remote == nil || p.publisher == nil {
		return nil, nil
	}

	files, err := p.remote.ListApproved(ctx)
	if err != nil {
		p.notifyError(ctx, err, "approval listing", "")
		return nil, []FileError{{Name: "approved", Error: err.Error()}}
	}

	var posted []string
	var errs []FileError
	for _, f := range files {
		pageID, err := p.promoteOne(ctx, f)
		if err != nil {
			slog.Error("promotion failed",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			errs = append(errs, FileError{Name: f.Name, Error: err.Error()})
			p.notifyError(ctx, err, "approval promotion", f.Name)
			continue
		}
		posted = append(posted, f.Name)
		if p.notifier != nil {
			p.notifier.SendPublished(ctx, notion.TitleFromFilename(f.Name), pageID, f.Name)
		}
	}
	return posted, errs
}

func (p *Pipeline) promoteOne(ctx context.Context, f drive.RemoteFile) (string, error) {
	tmpDir, err := os.MkdirTemp("", "echome-promote-*")
	if err != nil {
		return "", fmt.Errorf("pipeline: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, f.Name)
	if err := p.remote.Download(ctx, f.ID, localPath); err != nil {
		return "", err
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("pipeline: read draft: %w", err)
	}

	pageID, err := p.publisher.CreatePage(ctx, notion.TitleFromFilename(f.Name), string(data))
	if err != nil {
		return "", err
	}

	if posted := p.remote.Folders().Posted; posted != "" {
		if err := p.remote.Move(ctx, f.ID, posted); err != nil {
			return "", err
		}
	}
	return pageID, nil
}

func (p *Pipeline) publish(e events.Event) {
	if p.broker != nil {
		p.broker.Publish(e)
	}
}

func (p *Pipeline) publishFile(eventType, name string) {
	if p.broker != nil {
		p.broker.FileEvent(eventType, name)
	}
}

func (p *Pipeline) notifyError(ctx context.Context, cause error, processCtx, fileName string) {
	if p.notifier != nil {
		p.notifier.SendError(ctx, cause, processCtx, fileName)
	}
}

func (p *Pipeline) recordRun(started time.Time, mode string, report *Report, records []history.FileRecord) {
	if p.ledger == nil {
		return
	}
	run := history.Run{
		Mode:      mode,
		StartedAt: started,
		Duration:  p.now().Sub(started).Milliseconds(),
		Processed: len(report.Processed),
		Failed:    len(report.Errors),
	}
	if _, err := p.ledger.InsertRun(run, records); err != nil {
		slog.Warn("run history insert failed", slog.String("error", err.Error()))
	}
}

func (p *Pipeline) finishRun(started time.Time, mode string, report *Report) {
	p.publish(events.Event{Type: events.TypeRunCompleted, Data: map[string]any{
		"mode":      mode,
		"processed": len(report.Processed),
		"errors":    len(report.Errors),
	}})
}
