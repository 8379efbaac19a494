package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"blockpad/internal/domain"
)

var tripleNewlineRe = regexp.MustCompile(`\n{3,}`)

// Export serializes a whole document to Markdown, optionally prefixed with
// the document title as an H1.
func Export(doc *domain.Document, withTitle bool) string {
	var sb strings.Builder
	if withTitle && doc.Title != "" {
		sb.WriteString("# " + doc.Title + "\n\n")
	}
	sb.WriteString(ExportBlocks(doc.Blocks))
	return finalize(sb.String())
}

// ExportBlocks serializes an arbitrary block subset, e.g. for clipboard copy
// of a selection.
func ExportBlocks(blocks []domain.Block) string {
	var sb strings.Builder
	for i := range blocks {
		sb.WriteString(blockToMarkdown(&blocks[i]))
	}
	return finalize(sb.String())
}

func blockToMarkdown(b *domain.Block) string {
	indent := strings.Repeat("  ", b.Properties.Indent)
	content := markupToMarkdown(b.Content)

	switch b.Type {
	case domain.BlockTypeParagraph:
		if content == "" {
			return "\n"
		}
		return indent + content + "\n\n"
	case domain.BlockTypeHeading1:
		return "# " + content + "\n\n"
	case domain.BlockTypeHeading2:
		return "## " + content + "\n\n"
	case domain.BlockTypeHeading3:
		return "### " + content + "\n\n"
	case domain.BlockTypeTask:
		box := "- [ ] "
		if b.Properties.Checked {
			box = "- [x] "
		}
		return indent + box + content + "\n"
	case domain.BlockTypeQuote:
		return "> " + content + "\n\n"
	case domain.BlockTypeDivider:
		return "---\n\n"
	case domain.BlockTypeCode:
		lang := b.Properties.Language
		if lang == "plaintext" {
			lang = ""
		}
		return "```" + lang + "\n" + stripMarkup(b.Content) + "\n```\n\n"
	case domain.BlockTypeImage:
		out := fmt.Sprintf("![%s](%s)\n", b.Properties.Alt, b.Content)
		if b.Properties.Caption != "" {
			out += "*" + b.Properties.Caption + "*\n"
		}
		return out + "\n"
	case domain.BlockTypeLink:
		title := b.Properties.Title
		if title == "" {
			title = b.Content
		}
		return fmt.Sprintf("[%s](%s)\n\n", title, b.Content)
	case domain.BlockTypeGallery:
		var sb strings.Builder
		for _, img := range b.Properties.Images {
			sb.WriteString(fmt.Sprintf("![%s](%s)\n", img.Caption, img.URL))
		}
		if sb.Len() == 0 {
			return ""
		}
		return sb.String() + "\n"
	default:
		// Containers and unsupported types: content line when present.
		if content == "" {
			return ""
		}
		return indent + content + "\n\n"
	}
}

// finalize collapses runs of 3+ newlines to exactly 2, trims surrounding
// blank lines and guarantees a single trailing newline. Only newlines are
// trimmed so an indented first block keeps its prefix.
func finalize(out string) string {
	out = tripleNewlineRe.ReplaceAllString(out, "\n\n")
	out = strings.Trim(out, "\n")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out + "\n"
}

// ExportPlainText renders the document without any Markdown punctuation,
// using Unicode glyphs for tasks, quotes and dividers.
func ExportPlainText(doc *domain.Document) string {
	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString(doc.Title + "\n\n")
	}
	for i := range doc.Blocks {
		b := &doc.Blocks[i]
		content := stripMarkup(b.Content)
		switch b.Type {
		case domain.BlockTypeTask:
			box := "☐ "
			if b.Properties.Checked {
				box = "☑ "
			}
			sb.WriteString(box + content + "\n")
		case domain.BlockTypeQuote:
			sb.WriteString("❝ " + content + "\n\n")
		case domain.BlockTypeDivider:
			sb.WriteString("───\n\n")
		case domain.BlockTypeImage:
			sb.WriteString(b.Properties.Alt + "\n")
		default:
			if content != "" {
				sb.WriteString(content + "\n\n")
			}
		}
	}
	out := tripleNewlineRe.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out) + "\n"
}

var unsafeFilenameRe = regexp.MustCompile(`[^\w\- ]+`)

// SanitizeFilename derives a safe file name (without extension) from a
// document title.
func SanitizeFilename(title string) string {
	name := unsafeFilenameRe.ReplaceAllString(title, "")
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		return "untitled"
	}
	return name
}
