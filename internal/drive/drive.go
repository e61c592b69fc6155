// Package drive wraps the Google Drive v3 API for the remote batch
// pipeline: listing unprocessed input files, downloading them, uploading
// generated drafts, and marking sources processed by renaming.
//
// The service is stateless: every listing re-queries Drive, and the
// rename-on-completion marker is the sole idempotence mechanism.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/starford/echome/internal/apperr"
)

// ProcessedMarker is appended to a source filename (before the
// extension) once its outputs are uploaded. Marked files no longer match
// the listing query.
const ProcessedMarker = "_processed"

// mimeExtensions maps the supported input MIME types to local file
// extensions.
var mimeExtensions = map[string]string{
	"text/plain":    ".txt",
	"text/markdown": ".md",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/pdf": ".pdf",
}

// RemoteFile describes one file from a Drive listing. Instances are
// read-only and never constructed locally.
type RemoteFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MIMEType    string `json:"mime_type"`
	CreatedTime string `json:"created_time"`
}

// Folders holds the Drive folder IDs the pipeline operates on.
type Folders struct {
	Input    string
	Output   string
	Approved string
	Posted   string
}

// Service is the Drive watcher/uploader.
type Service struct {
	svc     *drivev3.Service
	folders Folders
}

// New builds a Service. Credentials come from the service-account file
// when given, or application-default credentials otherwise. Missing
// folder IDs fail here, before any file is touched.
func New(ctx context.Context, credentialsFile string, folders Folders) (*Service, error) {
	if folders.Input == "" || folders.Output == "" {
		return nil, fmt.Errorf("drive: input/output folder IDs are not set: %w", apperr.ErrMissingCredential)
	}

	opts := []option.ClientOption{option.WithScopes(drivev3.DriveScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: build service: %w", err)
	}
	return &Service{svc: svc, folders: folders}, nil
}

// Folders returns the configured folder IDs.
func (s *Service) Folders() Folders { return s.folders }

// ListUnprocessed returns input-folder files in a supported format that
// do not carry the processed marker, oldest first.
func (s *Service) ListUnprocessed(ctx context.Context) ([]RemoteFile, error) {
	return s.list(ctx, unprocessedQuery(s.folders.Input))
}

// ListApproved returns text/Markdown files awaiting promotion in the
// approved folder, oldest first.
func (s *Service) ListApproved(ctx context.Context) ([]RemoteFile, error) {
	if s.folders.Approved == "" {
		return nil, fmt.Errorf("drive: approved folder ID is not set: %w", apperr.ErrMissingCredential)
	}
	return s.list(ctx, approvedQuery(s.folders.Approved))
}

func (s *Service) list(ctx context.Context, query string) ([]RemoteFile, error) {
	resp, err := s.svc.Files.List().
		Context(ctx).
		Q(query).
		Fields("files(id, name, mimeType, createdTime)").
		OrderBy("createdTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive: list: %w", err)
	}
	out := make([]RemoteFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		out = append(out, RemoteFile{
			ID:          f.Id,
			Name:        f.Name,
			MIMEType:    f.MimeType,
			CreatedTime: f.CreatedTime,
		})
	}
	return out, nil
}

// Download fetches a file's content to localPath, creating parent
// directories as needed.
func (s *Service) Download(ctx context.Context, fileID, localPath string) error {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("drive: download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("drive: mkdir for download: %w", err)
	}
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("drive: create %s: %w", localPath, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("drive: write %s: %w", localPath, err)
	}
	return nil
}

// Upload creates a file named name in folderID from localPath and
// returns the new remote ID. An empty folderID targets the output folder.
func (s *Service) Upload(ctx context.Context, localPath, name, folderID, mimeType string) (string, error) {
	if folderID == "" {
		folderID = s.folders.Output
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("drive: open %s: %w", localPath, err)
	}
	defer f.Close()

	created, err := s.svc.Files.Create(&drivev3.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: mimeType,
	}).Context(ctx).Media(f).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("drive: upload %s: %w", name, err)
	}
	return created.Id, nil
}

// MarkProcessed renames the remote file so later listings skip it.
func (s *Service) MarkProcessed(ctx context.Context, fileID, originalName string) error {
	_, err := s.svc.Files.Update(fileID, &drivev3.File{
		Name: ProcessedName(originalName),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("drive: mark processed %s: %w", fileID, err)
	}
	return nil
}

// Move reparents a file into toFolder, removing its current parents.
func (s *Service) Move(ctx context.Context, fileID, toFolder string) error {
	f, err := s.svc.Files.Get(fileID).Context(ctx).Fields("parents").Do()
	if err != nil {
		return fmt.Errorf("drive: get parents %s: %w", fileID, err)
	}
	_, err = s.svc.Files.Update(fileID, nil).
		Context(ctx).
		AddParents(toFolder).
		RemoveParents(strings.Join(f.Parents, ",")).
		Fields("id, parents").
		Do()
	if err != nil {
		return fmt.Errorf("drive: move %s: %w", fileID, err)
	}
	return nil
}

// ProcessedName inserts the processed marker before the extension.
func ProcessedName(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name + ProcessedMarker
	}
	return strings.TrimSuffix(name, ext) + ProcessedMarker + ext
}

// ExtensionForMIME maps a supported MIME type to a file extension,
// defaulting to .txt.
func ExtensionForMIME(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return ".txt"
}

// unprocessedQuery builds the listing query for the input folder:
// supported MIME types only, not trashed, no processed marker.
func unprocessedQuery(folderID string) string {
	conds := make([]string, 0, len(mimeExtensions))
	for mime := range mimeExtensions {
		conds = append(conds, fmt.Sprintf("mimeType='%s'", mime))
	}
	// Stable order for tests.
	sort.Strings(conds)
	return fmt.Sprintf("'%s' in parents and trashed=false and (%s) and not name contains '%s'",
		folderID, strings.Join(conds, " or "), ProcessedMarker)
}

// approvedQuery matches text and Markdown drafts only.
func approvedQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed=false and (mimeType='text/plain' or mimeType='text/markdown')", folderID)
}
