package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// notionTextLimit is the API cap on a single rich-text content string.
const notionTextLimit = 2000

// MarkdownToBlocks converts Markdown into Notion blocks, line by line.
// Supported constructs: headings 1-3, fenced code, bulleted and numbered
// lists, blockquotes, and paragraphs. Anything else is a paragraph.
func MarkdownToBlocks(markdown string) []notionapi.Block {
	var blocks []notionapi.Block
	lines := strings.Split(markdown, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue

		case strings.HasPrefix(trimmed, "```"):
			lang := strings.TrimPrefix(trimmed, "```")
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
				code = append(code, lines[i])
			}
			blocks = append(blocks, codeBlock(strings.Join(code, "\n"), lang))

		case strings.HasPrefix(trimmed, "# "):
			blocks = append(blocks, headingBlock(1, strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, headingBlock(2, strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "### "):
			blocks = append(blocks, headingBlock(3, strings.TrimPrefix(trimmed, "### ")))

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, bulletBlock(trimmed[2:]))

		case numberedItem(trimmed) != "":
			blocks = append(blocks, numberedBlock(numberedItem(trimmed)))

		case strings.HasPrefix(trimmed, "> "):
			blocks = append(blocks, quoteBlock(strings.TrimPrefix(trimmed, "> ")))

		default:
			blocks = append(blocks, paragraphBlock(trimmed))
		}
	}
	return blocks
}

// numberedItem returns the text of a "1. item" line, or "" when the line
// is not a numbered list item.
func numberedItem(line string) string {
	dot := strings.Index(line, ". ")
	if dot <= 0 {
		return ""
	}
	for _, r := range line[:dot] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return line[dot+2:]
}

func richText(text string) []notionapi.RichText {
	if len(text) > notionTextLimit {
		text = text[:notionTextLimit]
	}
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: text}},
	}
}

func paragraphBlock(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: richText(text)},
	}
}

func headingBlock(level int, text string) notionapi.Block {
	heading := notionapi.Heading{RichText: richText(text)}
	switch level {
	case 1:
		return &notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading1,
			},
			Heading1: heading,
		}
	case 2:
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading2,
			},
			Heading2: heading,
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeHeading3,
			},
			Heading3: heading,
		}
	}
}

func bulletBlock(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

func numberedBlock(text string) notionapi.Block {
	return &notionapi.NumberedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeNumberedListItem,
		},
		NumberedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

func quoteBlock(text string) notionapi.Block {
	return &notionapi.QuoteBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeQuote,
		},
		Quote: notionapi.Quote{RichText: richText(text)},
	}
}

func codeBlock(code, language string) notionapi.Block {
	if language == "" {
		language = "plain text"
	}
	return &notionapi.CodeBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeCode,
		},
		Code: notionapi.Code{
			RichText: richText(code),
			Language: language,
		},
	}
}
