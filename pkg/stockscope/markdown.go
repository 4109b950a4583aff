package stockscope

import "regexp"

// markdownHints matches headings, emphasis, list bullets, numbered
// lists, and links.
var markdownHints = regexp.MustCompile(
	`(?m)^#{1,6}\s|\*\*[^*\n]+\*\*|^[-*]\s|^\d+\.\s|\[[^\]\n]+\]\([^)\n]+\)`)

// LooksLikeMarkdown reports whether content is probably markdown. This
// is a heuristic for picking a rendering path, not a format declaration:
// plain text with coincidental punctuation can misclassify.
func LooksLikeMarkdown(content string) bool {
	return markdownHints.MatchString(content)
}
