package apply

import (
	"fmt"
	"regexp"
	"strings"
)

// Marker comments tag inserted blocks so a second run detects and
// skips already-patched sections.
const (
	markerLinks     = "content-apply-links-v1"
	markerCitations = "content-apply-citations-v1"
	markerDepth     = "content-apply-depth-v1"
)

const maxDepthBlocks = 4

type linkOption struct {
	label string
	url   string
}

// internalLinkOptions is the curated pool the link block draws from.
// Every URL must resolve on the live site.
var internalLinkOptions = []linkOption{
	{"How Activated Carbon Deodorizers Work", "/learn/how-it-works"},
	{"How to Use a Cat Litter Deodorizer", "/blog/how-to-use-cat-litter-deodorizer"},
	{"Best Litter Odor Remover for Small Apartments", "/blog/best-litter-odor-remover-small-apartments"},
	{"Multi-Cat Litter Deodorizer Guide", "/blog/multi-cat-litter-deodorizer-guide"},
	{"Using Deodorizers With Kittens", "/learn/using-deodorizers-with-kittens"},
	{"Try the Trial Size", "/products/trial-size"},
}

var externalSources = []linkOption{
	{"ASPCA - Litter Box Problems", "https://www.aspca.org/pet-care/cat-care/common-cat-behavior-issues/litter-box-problems"},
	{"Cornell Feline Health Center", "https://www.vet.cornell.edu/departments/riney-canine-health-center/feline-health-topics"},
	{"AAFP Cat Friendly Guidelines", "https://catvets.com/guidelines"},
}

var faqHeadingRe = regexp.MustCompile(`(?i)<h2[^>]*>[^<]*(Frequently Asked Questions|FAQ|Questions frequentes|Questions Fr[ée]quemment Pos[ée]es)[^<]*</h2>`)

// insertBeforeFaqOrEnd places a block ahead of the FAQ heading when
// one exists, else ahead of the closing article tag, else at the end.
func insertBeforeFaqOrEnd(content, block string) string {
	if loc := faqHeadingRe.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + block + content[loc[0]:]
	}
	if idx := strings.LastIndex(content, "</article>"); idx >= 0 {
		return content[:idx] + block + content[idx:]
	}
	return content + block
}

func localizeInternalURL(locale, url string) string {
	if locale == "en" || !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "/fr/") {
		return url
	}
	if strings.HasPrefix(url, "/blog/") || strings.HasPrefix(url, "/learn/") {
		return "/fr" + url
	}
	return url
}

func buildInternalLinksBlock(locale, currentSlug string, needed int) string {
	if needed < 3 {
		needed = 3
	}
	var items strings.Builder
	count := 0
	for _, opt := range internalLinkOptions {
		if currentSlug != "" && strings.Contains(opt.url, currentSlug) {
			continue
		}
		if count >= needed {
			break
		}
		fmt.Fprintf(&items, `<li><a href="%s" class="text-[#5B2EFF] hover:underline">%s</a></li>`,
			localizeInternalURL(locale, opt.url), opt.label)
		count++
	}
	heading := "Related guides to read next"
	if locale == "fr" {
		heading = "Guides a lire ensuite"
	}
	return fmt.Sprintf("\n<!-- %s -->\n<section class=\"my-10\">\n  <h2>%s</h2>\n  <ul>%s</ul>\n</section>", markerLinks, heading, items.String())
}

func buildExternalSourcesBlock(locale string) string {
	var items strings.Builder
	for _, src := range externalSources {
		fmt.Fprintf(&items, `<li><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></li>`, src.url, src.label)
	}
	heading := "Helpful external sources"
	if locale == "fr" {
		heading = "Sources externes utiles"
	}
	return fmt.Sprintf("\n<!-- %s -->\n<section class=\"my-10\">\n  <h2>%s</h2>\n  <ul>%s</ul>\n</section>", markerCitations, heading, items.String())
}

func buildDepthBlock(locale string, index int) string {
	if locale == "fr" {
		return fmt.Sprintf(`
<!-- %s-%d -->
<section class="my-10">
  <h2>Plan pratique supplementaire %d</h2>
  <p>Pour stabiliser les resultats, traitez la litiere comme un systeme: ramassage regulier, profondeur constante et controle de l'humidite autour de la zone litiere. Les foyers qui suivent un protocole simple reduisent nettement les retours d'odeur.</p>
  <h3>Checklist hebdomadaire</h3>
  <ul>
    <li>Verifier la profondeur reelle apres chaque ramassage.</li>
    <li>Confirmer que la ventilation de la piece reste active.</li>
    <li>Nettoyer les textiles proches qui retiennent les odeurs.</li>
    <li>Ajuster la dose de granules selon le nombre de chats.</li>
  </ul>
  <p>Cette approche limite les interventions d'urgence et rend la performance plus previsible. En pratique, un rythme stable est souvent plus efficace qu'un changement frequent de marque.</p>
</section>`, markerDepth, index, index)
	}
	return fmt.Sprintf(`
<!-- %s-%d -->
<section class="my-10">
  <h2>Additional practical action plan %d</h2>
  <p>Reliable litter performance comes from systems thinking: fixed scoop timing, stable litter depth, and airflow checks around the box zone. Homes that run a repeatable protocol usually see fewer odor spikes and less emergency cleanup.</p>
  <h3>Weekly checklist</h3>
  <ul>
    <li>Reconfirm depth after each scoop cycle.</li>
    <li>Check room airflow and humidity around litter placement.</li>
    <li>Wash nearby fabrics and mats that retain odor.</li>
    <li>Adjust granule dose to cat count and season.</li>
  </ul>
  <p>When these basics are consistent, you can evaluate products more accurately and avoid constant brand switching. The goal is stable day-to-day control, not one-day freshness after a full change.</p>
</section>`, markerDepth, index, index)
}

// buildStructureBlock adds one H2/H3 pair for posts short on
// subheadings. It reuses depth index 0 so both checks share the
// marker namespace.
func buildStructureBlock(locale string) string {
	h2 := "Operational checkpoint"
	h3 := "When to adjust your routine"
	body := "If odor returns faster than expected, increase scoop frequency and check airflow before changing products."
	if locale == "fr" {
		h2 = "Repere operationnel"
		h3 = "Quand ajuster la routine"
		body = "Si l'odeur revient plus vite que prevu, augmentez la frequence de ramassage et controlez la ventilation avant de changer de produit."
	}
	return fmt.Sprintf("\n<!-- %s-0 -->\n<section class=\"my-8\">\n  <h2>%s</h2>\n  <h3>%s</h3>\n  <p>%s</p>\n</section>", markerDepth, h2, h3, body)
}
