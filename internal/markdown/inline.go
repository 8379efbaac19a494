package markdown

import (
	"regexp"
	"strings"
)

// Embedded markup <-> Markdown inline syntax. The importer emits a small tag
// vocabulary (<b>, <i>, <s>, <a>, <code>, <mark>); the converters here are
// its inverse plus tolerance for the equivalent aliases and stray tags.

var (
	anchorRe  = regexp.MustCompile(`<a\s+href="([^"]*)"[^>]*>(.*?)</a>`)
	anyTagRe  = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	entityMap = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	markPairs = strings.NewReplacer(
		"<b>", "**", "</b>", "**",
		"<strong>", "**", "</strong>", "**",
		"<i>", "*", "</i>", "*",
		"<em>", "*", "</em>", "*",
		"<s>", "~~", "</s>", "~~",
		"<del>", "~~", "</del>", "~~",
		"<strike>", "~~", "</strike>", "~~",
		"<mark>", "==", "</mark>", "==",
		"<code>", "`", "</code>", "`",
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
	)
)

// markupToMarkdown converts embedded markup to Markdown inline syntax,
// strips any remaining tags and decodes a fixed entity set.
func markupToMarkdown(content string) string {
	content = anchorRe.ReplaceAllString(content, "[$2]($1)")
	content = markPairs.Replace(content)
	content = anyTagRe.ReplaceAllString(content, "")
	return entityMap.Replace(content)
}

// stripMarkup removes all embedded markup, keeping the anchor text of links,
// for plain-text output and titles.
func stripMarkup(content string) string {
	content = anchorRe.ReplaceAllString(content, "$2")
	content = anyTagRe.ReplaceAllString(content, "")
	return entityMap.Replace(content)
}
