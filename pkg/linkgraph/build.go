// Package linkgraph builds and analyzes the site's internal link
// graph from route-handler source files. The build is two-phase:
// per-file link extraction is pure and runs in parallel, then a
// single-threaded merge derives incoming edges and link scores.
package linkgraph

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/purrify/siteaudit/models"
)

// Graph is an immutable snapshot of the internal link structure.
// Order holds node URLs sorted lexically for deterministic iteration.
type Graph struct {
	Nodes map[string]*models.LinkNode
	Order []string
}

// Hyperlink-like references in raw route source: plain href
// attributes, router "to" props, and pathname fields.
var (
	hrefRefRe     = regexp.MustCompile(`href=["']([^"']+)["']`)
	toRefRe       = regexp.MustCompile(`to=["']([^"']+)["']`)
	pathnameRefRe = regexp.MustCompile(`pathname:\s*["']([^"']+)["']`)
)

var routeExtensions = map[string]bool{
	".tsx": true,
	".ts":  true,
	".jsx": true,
	".js":  true,
}

type fileLinks struct {
	url      string
	outgoing []string
}

// Build scans every route source file under pagesDir and assembles
// the link graph. Private routes (underscore-prefixed files or
// directories) and API routes are excluded.
func Build(pagesDir, domain string, workers int) (*Graph, error) {
	files, err := enumerateRouteFiles(pagesDir)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	// Phase 1: extract each file's outgoing links. Pure per file, so
	// safe to parallelize; results land at the file's own index to
	// keep merge order independent of scheduling.
	results := make([]fileLinks, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				url := routeURL(pagesDir, files[i])
				outgoing := extractFileLinks(files[i], url, domain)
				results[i] = fileLinks{url: url, outgoing: outgoing}
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Phase 2: single-threaded fold into the shared graph.
	g := &Graph{Nodes: map[string]*models.LinkNode{}}
	for _, r := range results {
		if _, exists := g.Nodes[r.url]; !exists {
			g.Nodes[r.url] = &models.LinkNode{
				URL:      r.url,
				PageType: ClassifyPageType(r.url),
			}
		}
	}
	for _, r := range results {
		node := g.Nodes[r.url]
		for _, target := range r.outgoing {
			if target == r.url {
				continue
			}
			node.OutgoingLinks = appendUnique(node.OutgoingLinks, target)
		}
	}
	for _, r := range results {
		node := g.Nodes[r.url]
		for _, target := range node.OutgoingLinks {
			if targetNode, exists := g.Nodes[target]; exists {
				targetNode.IncomingLinks = appendUnique(targetNode.IncomingLinks, r.url)
			}
		}
	}
	for _, node := range g.Nodes {
		node.LinkScore = 3*len(node.IncomingLinks) + len(node.OutgoingLinks)
	}

	g.Order = make([]string, 0, len(g.Nodes))
	for url := range g.Nodes {
		g.Order = append(g.Order, url)
	}
	sort.Strings(g.Order)
	return g, nil
}

// enumerateRouteFiles returns route source files in sorted order.
func enumerateRouteFiles(pagesDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if name == "api" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			return nil
		}
		if !routeExtensions[filepath.Ext(name)] {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// routeURL derives a page URL from a route file path: extension
// stripped, index files collapsed onto their parent directory.
func routeURL(pagesDir, filePath string) string {
	rel, err := filepath.Rel(pagesDir, filePath)
	if err != nil {
		rel = filePath
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel + "/"
}

// extractFileLinks pulls internal link targets out of one file's raw
// source text, in match order, duplicates preserved for the caller to
// collapse.
func extractFileLinks(filePath, pageURL, domain string) []string {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	src := string(content)

	var refs []string
	for _, re := range []*regexp.Regexp{hrefRefRe, toRefRe, pathnameRefRe} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			refs = append(refs, m[1])
		}
	}

	var out []string
	for _, ref := range refs {
		if target, ok := resolveInternal(ref, pageURL, domain); ok {
			out = append(out, target)
		}
	}
	return out
}

// resolveInternal normalizes one raw reference to an internal page
// URL. External links, anchors, and pseudo-URL schemes are dropped;
// relative paths resolve against the current page.
func resolveInternal(ref, pageURL, domain string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	lowered := strings.ToLower(ref)
	for _, scheme := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lowered, scheme) {
			return "", false
		}
	}
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		if !strings.Contains(ref, domain) {
			return "", false
		}
		if i := strings.Index(ref, domain); i >= 0 {
			ref = ref[i+len(domain):]
		}
		if ref == "" {
			ref = "/"
		}
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" {
		return "", false
	}
	if !strings.HasPrefix(ref, "/") {
		ref = path.Join(path.Dir(strings.TrimSuffix(pageURL, "/")), ref)
	}
	if !strings.HasSuffix(ref, "/") {
		ref += "/"
	}
	return ref, true
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// ClassifyPageType buckets a URL into its site section. Locale
// prefixes are ignored for classification.
func ClassifyPageType(url string) models.PageType {
	trimmed := strings.Trim(url, "/")
	segments := strings.Split(trimmed, "/")
	if len(segments) > 0 {
		if _, ok := localePrefixes[segments[0]]; ok {
			segments = segments[1:]
		}
	}
	if len(segments) == 0 || (len(segments) == 1 && segments[0] == "") {
		return models.PageHomepage
	}
	switch segments[0] {
	case "products":
		return models.PageProduct
	case "blog":
		return models.PageBlog
	case "learn":
		return models.PageLearn
	case "locations":
		return models.PageLocation
	default:
		return models.PageOther
	}
}

var localePrefixes = map[string]struct{}{
	"fr": {},
	"es": {},
	"zh": {},
}
