package services

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`(https?://\S+)`)
	htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// FormatCommentText turns user text into safe HTML: markup characters are
// escaped, bare URLs become links and newlines become <br>.
// Quotes are escaped too so a URL can never break out of its href.
func FormatCommentText(text string) string {
	text = htmlReplacer.Replace(text)
	text = urlPattern.ReplaceAllString(text, `<a href="$1">$1</a>`)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "<br>")
}
