// Package markdown translates between the block document model and Markdown
// text: importing arbitrary Markdown into blocks, exporting blocks (or a
// selection) back out, and classifying clipboard text.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"blockpad/internal/domain"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Import maps a Markdown string to a new document. It never fails: malformed
// or empty input degrades to best-effort paragraph blocks, and a zero-block
// result is replaced by a single empty paragraph so the document invariant
// holds at the import boundary too.
func Import(src string) *domain.Document {
	doc := domain.NewDocument("Untitled")
	doc.Blocks = nil

	normalized := normalizeSource(src)
	source := []byte(normalized)
	root := md.Parser().Parse(text.NewReader(source))

	imp := &importer{src: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		imp.appendNode(n)
	}

	if imp.title != "" {
		doc.Title = imp.title
	}
	doc.Blocks = imp.blocks
	if len(doc.Blocks) == 0 {
		doc.Blocks = []domain.Block{*domain.NewBlock(domain.BlockTypeParagraph, "")}
	}
	return doc
}

type importer struct {
	src    []byte
	blocks []domain.Block
	title  string
}

func (imp *importer) add(b *domain.Block) {
	imp.blocks = append(imp.blocks, *b)
}

func (imp *importer) appendNode(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		content := renderInline(node, imp.src)
		if node.Level == 1 && imp.title == "" {
			// The first top-level H1 becomes the document title.
			imp.title = stripMarkup(content)
			return
		}
		level := node.Level
		if level > 3 {
			level = 3
		}
		types := map[int]domain.BlockType{
			1: domain.BlockTypeHeading1,
			2: domain.BlockTypeHeading2,
			3: domain.BlockTypeHeading3,
		}
		imp.add(domain.NewBlock(types[level], content))

	case *ast.Paragraph:
		if img := soleImage(node); img != nil {
			imp.addImage(img)
			return
		}
		imp.add(domain.NewBlock(domain.BlockTypeParagraph, renderInline(node, imp.src)))

	case *ast.Blockquote:
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, renderInline(c, imp.src))
		}
		imp.add(domain.NewBlock(domain.BlockTypeQuote, strings.Join(parts, "\n")))

	case *ast.List:
		imp.appendList(node, 0)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		// Import degrades code fences to inline-code paragraphs; the
		// dedicated code block type is reachable through conversion.
		raw := strings.TrimRight(nodeLines(n, imp.src), "\n")
		imp.add(domain.NewBlock(domain.BlockTypeParagraph, "<code>"+raw+"</code>"))

	case *ast.ThematicBreak:
		imp.add(domain.NewBlock(domain.BlockTypeDivider, ""))

	case *east.Table:
		imp.appendTable(node)

	case *ast.HTMLBlock:
		raw := strings.TrimRight(nodeLines(n, imp.src), "\n")
		if strings.TrimSpace(raw) != "" {
			imp.add(domain.NewBlock(domain.BlockTypeParagraph, raw))
		}

	default:
		if raw := strings.TrimSpace(nodeLines(n, imp.src)); raw != "" {
			imp.add(domain.NewBlock(domain.BlockTypeParagraph, raw))
		}
	}
}

// appendList flattens a (possibly nested) list into blocks: task items
// become task blocks, plain items become paragraphs with a literal marker,
// and nesting depth maps onto the indent property.
func (imp *importer) appendList(list *ast.List, depth int) {
	ordinal := list.Start
	if ordinal == 0 {
		ordinal = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var nestedLists []*ast.List
		checked, isTask := taskState(item)
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				nestedLists = append(nestedLists, nested)
				continue
			}
			parts = append(parts, renderInline(c, imp.src))
		}
		content := strings.Join(parts, "\n")

		var b *domain.Block
		if isTask {
			// The checkbox token leaves its trailing space in the text.
			b = domain.NewBlock(domain.BlockTypeTask, strings.TrimSpace(content))
			b.Properties.Checked = checked
		} else {
			marker := "- "
			if list.IsOrdered() {
				marker = fmt.Sprintf("%d. ", ordinal)
			}
			b = domain.NewBlock(domain.BlockTypeParagraph, marker+content)
		}
		if depth > 0 {
			indent := depth
			if indent > 3 {
				indent = 3
			}
			b.Properties.Indent = indent
		}
		imp.add(b)
		ordinal++

		for _, nested := range nestedLists {
			imp.appendList(nested, depth+1)
		}
	}
}

// appendTable renders the header row as one bold paragraph and each data row
// as a paragraph with cells joined by " | ".
func (imp *importer) appendTable(table *east.Table) {
	for n := table.FirstChild(); n != nil; n = n.NextSibling() {
		switch row := n.(type) {
		case *east.TableHeader:
			imp.add(domain.NewBlock(domain.BlockTypeParagraph, "<b>"+imp.rowText(row)+"</b>"))
		case *east.TableRow:
			imp.add(domain.NewBlock(domain.BlockTypeParagraph, imp.rowText(row)))
		}
	}
}

func (imp *importer) rowText(row ast.Node) string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, renderInline(cell, imp.src))
	}
	return strings.Join(cells, " | ")
}

func (imp *importer) addImage(img *ast.Image) {
	b := domain.NewBlock(domain.BlockTypeImage, string(img.Destination))
	b.Properties.Alt = string(img.Text(imp.src))
	if title := string(img.Title); title != "" {
		b.Properties.Caption = title
	}
	imp.add(b)
}

// soleImage returns the image when the paragraph consists of exactly one
// image token, which imports as a standalone image block.
func soleImage(p *ast.Paragraph) *ast.Image {
	if p.ChildCount() != 1 {
		return nil
	}
	img, _ := p.FirstChild().(*ast.Image)
	return img
}

// taskState reports whether the list item carries a GFM task checkbox and
// its checked state.
func taskState(item ast.Node) (checked, ok bool) {
	first := item.FirstChild()
	if first == nil {
		return false, false
	}
	box, isBox := first.FirstChild().(*east.TaskCheckBox)
	if !isBox {
		return false, false
	}
	return box.IsChecked, true
}

// renderInline converts a node's inline children to embedded markup:
// strong -> <b>, em -> <i>, strikethrough -> <s>, link -> <a>, codespan ->
// <code>; hard breaks become literal newlines and escapes literal text.
func renderInline(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		renderInlineNode(&sb, c, src)
	}
	return sb.String()
}

func renderInlineNode(sb *strings.Builder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		sb.Write(node.Segment.Value(src))
		if node.HardLineBreak() {
			sb.WriteString("\n")
		} else if node.SoftLineBreak() {
			sb.WriteString(" ")
		}
	case *ast.String:
		sb.Write(node.Value)
	case *ast.Emphasis:
		tag := "i"
		if node.Level >= 2 {
			tag = "b"
		}
		sb.WriteString("<" + tag + ">")
		sb.WriteString(renderInline(node, src))
		sb.WriteString("</" + tag + ">")
	case *east.Strikethrough:
		sb.WriteString("<s>")
		sb.WriteString(renderInline(node, src))
		sb.WriteString("</s>")
	case *ast.Link:
		sb.WriteString(`<a href="` + string(node.Destination) + `">`)
		sb.WriteString(renderInline(node, src))
		sb.WriteString("</a>")
	case *ast.AutoLink:
		url := string(node.URL(src))
		sb.WriteString(`<a href="` + url + `">` + url + "</a>")
	case *ast.CodeSpan:
		sb.WriteString("<code>")
		sb.WriteString(renderInline(node, src))
		sb.WriteString("</code>")
	case *ast.Image:
		// Inline images inside mixed text stay literal Markdown.
		sb.WriteString("![" + string(node.Text(src)) + "](" + string(node.Destination) + ")")
	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			sb.Write(seg.Value(src))
		}
	default:
		sb.WriteString(renderInline(node, src))
	}
}

// nodeLines joins a block node's raw source lines.
func nodeLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

// ── soft-wrap normalization ────────────────────────────────

var specialLine = regexp.MustCompile(`^(\s*)(#{1,6}\s|>|[-*+]\s|\d+[.)]\s|\x60{3}|~{3}|(-{3,}|\*{3,}|_{3,})\s*$|\|)`)

// normalizeSource converts line endings and re-joins soft-wrapped lines:
// consecutive non-blank lines without a blank separator collapse into one
// logical line, except around "special" lines (headings, quotes, list
// markers, fences, rules, table rows) and inside fenced code.
func normalizeSource(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	lines := strings.Split(src, "\n")
	var out []string
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		fenceDelim := strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
		if fenceDelim {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence || trimmed == "" || specialLine.MatchString(line) {
			out = append(out, line)
			continue
		}
		// Join onto the previous line when it is plain and non-blank.
		if len(out) > 0 {
			prev := out[len(out)-1]
			if strings.TrimSpace(prev) != "" && !specialLine.MatchString(prev) {
				out[len(out)-1] = prev + " " + trimmed
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
