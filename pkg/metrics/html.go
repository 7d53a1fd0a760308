// Package metrics extracts PageMetrics from page content. Two source
// variants exist behind one interface: blog posts carry a single HTML
// fragment, the hand-coded guide pages only have a structured copy
// file plus the component sources that render them.
package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/purrify/siteaudit/models"
)

// Extractor produces the fixed metric set for one page.
type Extractor interface {
	Extract() (models.PageMetrics, error)
}

var imgTagRe = regexp.MustCompile(`(?i)<img\b[^>]*>`)

// HTMLSource extracts metrics from a blog post's HTML fragment.
type HTMLSource struct {
	HTML          string
	FeaturedImage string
	Domain        string
	Locale        string
}

// Extract parses the fragment and counts structural elements. Word
// counts work on the stripped text; image spacing works on the raw
// fragment split at img tags so segments keep their tag-free words.
func (s *HTMLSource) Extract() (models.PageMetrics, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
	if err != nil {
		return models.PageMetrics{}, fmt.Errorf("failed to parse content: %w", err)
	}

	words := CountWords(StripHTML(s.HTML), s.Locale)
	inlineImages := doc.Find("img").Length()

	var internal, external int
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch ClassifyHref(href, s.Domain) {
		case LinkInternal:
			internal++
		case LinkExternal:
			external++
		}
	})

	totalImages := inlineImages
	if s.FeaturedImage != "" {
		totalImages++
	}

	return models.PageMetrics{
		Words:                 words,
		H2:                    doc.Find("h2").Length(),
		H3:                    doc.Find("h3").Length(),
		Paragraphs:            doc.Find("p").Length(),
		InlineImages:          inlineImages,
		TotalImages:           totalImages,
		InternalLinks:         internal,
		ExternalLinks:         external,
		MaxWordsBetweenImages: maxWordsBetweenImages(s.HTML, s.Locale),
		ListCount:             doc.Find("ul").Length() + doc.Find("ol").Length(),
		TableCount:            doc.Find("table").Length(),
		CalloutCount:          doc.Find("blockquote").Length() + doc.Find("aside").Length(),
	}, nil
}

// maxWordsBetweenImages measures the worst wall of text between
// visuals. With zero images it equals the total word count.
func maxWordsBetweenImages(html, locale string) int {
	max := 0
	for _, segment := range imgTagRe.Split(html, -1) {
		if n := CountWords(StripHTML(segment), locale); n > max {
			max = n
		}
	}
	return max
}

// Link classes for href classification.
type LinkClass int

const (
	LinkNone LinkClass = iota
	LinkInternal
	LinkExternal
)

// ClassifyHref buckets an href as internal (rooted path or own
// domain), external (other http(s) URL), or neither.
func ClassifyHref(href, domain string) LinkClass {
	if href == "" {
		return LinkNone
	}
	if strings.HasPrefix(href, "/") || strings.Contains(href, domain) {
		return LinkInternal
	}
	lowered := strings.ToLower(href)
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		return LinkExternal
	}
	return LinkNone
}
