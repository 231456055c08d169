package chunker

import (
	"regexp"
	"strings"
)

var (
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
	pageFooterRe   = regexp.MustCompile(`Page \d+ of \d+`)
	footnoteRe     = regexp.MustCompile(`\[\d+\]`)
	intraSpaceRe   = regexp.MustCompile(`[ \t]+`)
	blankLineRe    = regexp.MustCompile(`\n[ \t]*\n`)
)

// Clean strips extraction noise from raw document text while preserving
// paragraph structure: collapses runs of newlines, drops page footers and
// footnote markers, and normalizes in-line whitespace.
func Clean(text string) string {
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = pageFooterRe.ReplaceAllString(text, "")
	text = footnoteRe.ReplaceAllString(text, "")
	text = intraSpaceRe.ReplaceAllString(text, " ")
	text = blankLineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
