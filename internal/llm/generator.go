package llm

import (
	"context"
	"fmt"

	"github.com/starford/echome/internal/apperr"
)

// Shape identifies one of the three target output forms.
type Shape string

// Supported output shapes.
const (
	ShapeBlog     Shape = "blog"
	ShapeXPost    Shape = "x_post"
	ShapeLinkedIn Shape = "linkedin"
)

// shapePrompt couples an instructional template with the output token
// budget for one shape. The template receives the full input content.
type shapePrompt struct {
	maxTokens int
	template  string
}

var shapePrompts = map[Shape]shapePrompt{
	ShapeBlog: {
		maxTokens: 4096,
		template: `Write a technical blog article based on the content below.

Requirements:
- Markdown format
- Readable structure with headings and bullet lists where appropriate
- Technically accurate yet easy to follow
- Use domain terminology (SAP/IT) where it fits the content
- Introduction, body, and conclusion

Input content:
%s

Output only the article, with no preamble or explanation:`,
	},
	ShapeXPost: {
		maxTokens: 512,
		template: `Write an X (Twitter) post based on the content below.

Requirements:
- At most 280 characters
- Catchy and attention-grabbing
- Include 2-3 relevant hashtags (e.g. #SAP #Tech #DX)
- Use emoji sparingly (0-2)

Input content:
%s

Output only the post, with no preamble or explanation:`,
	},
	ShapeLinkedIn: {
		maxTokens: 2048,
		template: `Write a LinkedIn post based on the content below.

Requirements:
- Professional tone
- Readable paragraph structure
- Emphasize value and takeaways
- End with a question or call to action that invites discussion
- Include 3-5 relevant hashtags

Input content:
%s

Output only the post, with no preamble or explanation:`,
	},
}

// Shapes returns the supported shapes in a stable order.
func Shapes() []Shape {
	return []Shape{ShapeBlog, ShapeXPost, ShapeLinkedIn}
}

// Generator produces publishable text in one of the supported shapes.
type Generator struct {
	client *Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate renders the shape's prompt template with the full content and
// requests a completion within the shape's token budget. Request failures
// propagate to the caller; they are fatal for the current file.
func (g *Generator) Generate(ctx context.Context, content string, shape Shape) (string, error) {
	sp, ok := shapePrompts[shape]
	if !ok {
		return "", fmt.Errorf("llm: shape %q: %w", shape, apperr.ErrUnknownShape)
	}
	text, err := g.client.Complete(ctx, fmt.Sprintf(sp.template, content), sp.maxTokens)
	if err != nil {
		return "", fmt.Errorf("llm: generate %s: %w", shape, err)
	}
	return text, nil
}
