package textfilter

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	afterNewline    = regexp.MustCompile(`\n[ \t]+`)
	blankRun        = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes raw recognizer output into clean caption text.
//
// Form feeds become spaces, line endings become bare newlines, horizontal
// whitespace runs collapse to single spaces, indentation after newlines is
// stripped, runs of three or more newlines collapse to exactly two, and the
// result is trimmed. Applying Normalize to its own output changes nothing,
// so assembled page text can be normalized again without drift.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\x0c", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = afterNewline.ReplaceAllString(text, "\n")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
