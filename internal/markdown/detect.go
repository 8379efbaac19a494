package markdown

import "regexp"

// Patterns that mark pasted plain text as probable Markdown. One hit routes
// the paste through the importer; otherwise the text passes through
// untouched.
var markdownHints = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s`),          // heading
	regexp.MustCompile(`(?m)^[-*+]\s`),           // list item
	regexp.MustCompile(`(?m)^\d+[.)]\s`),         // ordered list item
	regexp.MustCompile(`(?m)^>\s?`),              // blockquote
	regexp.MustCompile("(?m)^```"),               // code fence
	regexp.MustCompile(`(?m)^(-{3,}|\*{3,})\s*$`), // horizontal rule
	regexp.MustCompile(`\*\*[^*]+\*\*`),          // bold
	regexp.MustCompile(`(^|\s)\*[^*\s][^*]*\*`),  // italic
	regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`),   // image
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),    // link
}

// LooksLikeMarkdown heuristically classifies clipboard text.
func LooksLikeMarkdown(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range markdownHints {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
