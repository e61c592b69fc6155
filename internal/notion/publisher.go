// Package notion promotes approved drafts into a Notion database as
// pages, converting their Markdown body into Notion blocks.
package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/starford/echome/internal/apperr"
)

// maxBlocksPerCreate is the Notion API limit on children in a single
// page-create call.
const maxBlocksPerCreate = 100

// Publisher creates pages in one configured database.
type Publisher struct {
	client     *notionapi.Client
	databaseID string
}

// New builds a Publisher. Both the integration token and the target
// database ID are required.
func New(token, databaseID string) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("notion: token is not set: %w", apperr.ErrMissingCredential)
	}
	if databaseID == "" {
		return nil, fmt.Errorf("notion: database ID is not set: %w", apperr.ErrMissingCredential)
	}
	return &Publisher{
		client:     notionapi.NewClient(notionapi.Token(token)),
		databaseID: databaseID,
	}, nil
}

// CreatePage adds a page titled title to the database, with the Markdown
// body converted to blocks, and returns the new page ID.
func (p *Publisher) CreatePage(ctx context.Context, title, markdown string) (string, error) {
	blocks := MarkdownToBlocks(markdown)
	if len(blocks) > maxBlocksPerCreate {
		blocks = blocks[:maxBlocksPerCreate]
	}

	page, err := p.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.databaseID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: []notionapi.RichText{
					{Text: &notionapi.Text{Content: title}},
				},
			},
		},
		Children: blocks,
	})
	if err != nil {
		return "", fmt.Errorf("notion: create page %q: %w", title, err)
	}
	return string(page.ID), nil
}

// TitleFromFilename derives a page title from a draft filename: the
// extension and generation suffixes are stripped and underscores become
// spaces.
func TitleFromFilename(name string) string {
	base := name
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
