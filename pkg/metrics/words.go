package metrics

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// StripHTML removes script/style blocks and all tags, decodes the two
// entities that matter for word boundaries, and collapses whitespace.
func StripHTML(html string) string {
	text := scriptBlockRe.ReplaceAllString(html, " ")
	text = styleBlockRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// CountWords counts whitespace-separated tokens. Chinese text does
// not use spaces, so for the zh locale every Han rune counts as one
// word alongside any remaining whitespace-separated tokens.
func CountWords(text, locale string) int {
	if locale != "zh" {
		return len(strings.Fields(text))
	}
	han := 0
	var rest strings.Builder
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			han++
			rest.WriteRune(' ')
			continue
		}
		rest.WriteRune(r)
	}
	return han + len(strings.Fields(rest.String()))
}
