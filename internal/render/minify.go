// internal/render/minify.go
package render

import (
	"regexp"
	"strings"
)

var (
	betweenTags  = regexp.MustCompile(`>\s+<`)
	leadingSpace = regexp.MustCompile(`(?m)^[ \t]+`)
)

// Minify is the default minify collaborator: a conservative whitespace
// collapse that never touches text inside a tag's content beyond the
// whitespace that separates tags. Hosts wanting an aggressive minifier can
// supply their own.
func Minify(html string) (string, error) {
	html = leadingSpace.ReplaceAllString(html, "")
	html = betweenTags.ReplaceAllString(html, "><")
	return strings.TrimSpace(html), nil
}
