// Package detector provides locale-integrity checks and metadata
// enrichment for audited pages: statistical language detection on body
// text and excerpt recovery from content HTML when the post metadata
// lacks one.
package detector

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// minDetectionWords guards against classifying snippets too short to
// carry a language signal.
const minDetectionWords = 20

// Detector wraps a lingua language detector restricted to the site's
// supported locales. Construction is expensive; build once per run.
type Detector struct {
	languages lingua.LanguageDetector
}

var localeLanguages = map[string]lingua.Language{
	"en": lingua.English,
	"fr": lingua.French,
	"es": lingua.Spanish,
	"zh": lingua.Chinese,
}

// New builds a detector over the given locale codes. Unknown codes
// are ignored; with fewer than two usable locales detection is
// disabled and every check passes.
func New(locales []string) *Detector {
	var langs []lingua.Language
	for _, code := range locales {
		if lang, ok := localeLanguages[code]; ok {
			langs = append(langs, lang)
		}
	}
	if len(langs) < 2 {
		return &Detector{}
	}
	return &Detector{
		languages: lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			Build(),
	}
}

// DetectLanguage returns the ISO 639-1 code of the dominant language
// in text, or "" when detection is disabled or the text is too short.
func (d *Detector) DetectLanguage(text string) string {
	if d.languages == nil {
		return ""
	}
	if len(strings.Fields(text)) < minDetectionWords {
		return ""
	}
	lang, ok := d.languages.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// CheckLocale compares the detected body language against the
// expected locale. The boolean reports a mismatch; an empty detection
// never mismatches.
func (d *Detector) CheckLocale(text, locale string) (string, bool) {
	detected := d.DetectLanguage(text)
	if detected == "" {
		return "", false
	}
	return detected, detected != locale
}

// RecoverExcerpt distills an excerpt from content HTML for posts
// whose metadata carries none. The page URL anchors relative links
// during extraction. Returns "" when readability cannot extract
// anything usable.
func RecoverExcerpt(contentHTML, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		parsed = &url.URL{Scheme: "https", Host: "localhost", Path: "/"}
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(contentHTML), parsed)
	if err != nil {
		return ""
	}
	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt != "" {
		return excerpt
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > 40 {
		words = words[:40]
	}
	return strings.Join(words, " ")
}
