package linkgraph

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/purrify/siteaudit/models"
)

const graphDomain = "purrify.ca"

// writePages lays out a small route tree:
//
//	index.tsx           -> /, links to /blog/ and /products/trial-size/
//	blog/index.tsx      -> /blog/, links to both posts
//	blog/post-a.tsx     -> /blog/post-a/, links to post-b and trial-size
//	blog/post-b.tsx     -> /blog/post-b/, no outgoing links
//	products/trial-size.tsx -> links home
//	learn/guide.tsx     -> orphan, links to post-a
func writePages(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pages := map[string]string{
		"index.tsx":               `<a href="/blog/">Blog</a> <Link href="/products/trial-size/">Try</Link>`,
		"blog/index.tsx":          `<a href="/blog/post-a/">A</a> <a href="/blog/post-b/">B</a> <a href="/blog/post-a/">A again</a>`,
		"blog/post-a.tsx":         `<a href="/blog/post-b/">B</a> <a href="https://www.purrify.ca/products/trial-size/">buy</a> <a href="https://example.org/x">ext</a> <a href="#faq">anchor</a> <a href="mailto:x@y.z">mail</a>`,
		"blog/post-b.tsx":         `<p>no links here</p>`,
		"products/trial-size.tsx": `<Link href="/">Home</Link>`,
		"learn/guide.tsx":         `{ pathname: "/blog/post-a/" }`,
		"api/checkout.ts":         `<a href="/secret/">should be excluded</a>`,
		"_app.tsx":                `<a href="/also-excluded/">x</a>`,
	}
	for name, content := range pages {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(writePages(t), graphDomain, 4)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuildDerivesRoutesAndEdges(t *testing.T) {
	g := buildTestGraph(t)

	wantNodes := []string{"/", "/blog/", "/blog/post-a/", "/blog/post-b/", "/learn/guide/", "/products/trial-size/"}
	if !reflect.DeepEqual(g.Order, wantNodes) {
		t.Fatalf("nodes = %v, want %v", g.Order, wantNodes)
	}

	blogIndex := g.Nodes["/blog/"]
	// Duplicate edge to post-a collapses.
	if !reflect.DeepEqual(blogIndex.OutgoingLinks, []string{"/blog/post-a/", "/blog/post-b/"}) {
		t.Errorf("blog index outgoing = %v", blogIndex.OutgoingLinks)
	}

	postA := g.Nodes["/blog/post-a/"]
	// Own-domain absolute URL resolves internally; external, anchor,
	// and mailto references are dropped.
	if !reflect.DeepEqual(postA.OutgoingLinks, []string{"/blog/post-b/", "/products/trial-size/"}) {
		t.Errorf("post-a outgoing = %v", postA.OutgoingLinks)
	}
	if len(postA.IncomingLinks) != 2 {
		t.Errorf("post-a incoming = %v, want blog index and learn guide", postA.IncomingLinks)
	}

	if postA.LinkScore != 3*2+2 {
		t.Errorf("post-a linkScore = %d, want 8", postA.LinkScore)
	}

	if _, exists := g.Nodes["/api/checkout/"]; exists {
		t.Error("api routes must be excluded")
	}
	if g.Nodes["/blog/post-a/"].PageType != models.PageBlog {
		t.Errorf("post-a pageType = %v", g.Nodes["/blog/post-a/"].PageType)
	}
	if g.Nodes["/"].PageType != models.PageHomepage {
		t.Errorf("root pageType = %v", g.Nodes["/"].PageType)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	dir := writePages(t)
	first, err := Build(dir, graphDomain, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(dir, graphDomain, 8)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Order, again.Order) {
			t.Fatal("node order varies between builds")
		}
		for _, url := range first.Order {
			if !reflect.DeepEqual(first.Nodes[url], again.Nodes[url]) {
				t.Fatalf("node %s varies between builds", url)
			}
		}
	}
}

func TestAnalyzeTiers(t *testing.T) {
	g := buildTestGraph(t)
	a := g.Analyze()

	// learn/guide has no incoming links; the homepage also has one
	// incoming (from trial-size) so it is not orphaned anyway.
	if len(a.Orphans) != 1 || a.Orphans[0].URL != "/learn/guide/" {
		t.Fatalf("orphans = %v", urls(a.Orphans))
	}
	for _, node := range a.Weak {
		if in := len(node.IncomingLinks); in < 1 || in > 2 {
			t.Errorf("weak node %s has %d incoming", node.URL, in)
		}
	}
	if a.TotalPages != 6 {
		t.Errorf("total pages = %d, want 6", a.TotalPages)
	}
	if a.AverageIncoming <= 0 || a.AverageOutgoing <= 0 {
		t.Error("averages should be positive")
	}
}

func TestHomepageNeverOrphan(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"index.tsx": `<a href="/about/">about</a>`,
		"about.tsx": `<p>nothing</p>`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	g, err := Build(dir, graphDomain, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := g.Analyze()
	for _, node := range a.Orphans {
		if node.PageType == models.PageHomepage {
			t.Fatal("homepage reported as orphan")
		}
	}
}

func TestGetLinkSuggestions(t *testing.T) {
	g := buildTestGraph(t)

	candidates := g.GetLinkSuggestions("/blog/post-b/", 3)
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range candidates {
		if c.URL == "/blog/post-b/" {
			t.Fatal("target suggested as its own source")
		}
		for _, from := range g.Nodes["/blog/post-b/"].IncomingLinks {
			if c.URL == from {
				t.Fatalf("%s already links to target", c.URL)
			}
		}
	}
	// The learn guide shares the blog page type with nothing, but the
	// homepage and trial-size also compete; same-type pages are gone
	// (blog index and post-a already link). Relevance ordering is
	// stable, so just assert the unknown target case.
	if got := g.GetLinkSuggestions("/nope/", 3); got != nil {
		t.Errorf("unknown target: got %v", urls(got))
	}
}

func TestFindPagesNeedingLinks(t *testing.T) {
	g := buildTestGraph(t)
	needy := g.FindPagesNeedingLinks(3)

	if len(needy) == 0 {
		t.Fatal("expected needy pages")
	}
	if needy[0].URL != "/learn/guide/" {
		t.Errorf("orphan should sort first, got %s", needy[0].URL)
	}
	for _, node := range needy {
		if node.PageType == models.PageHomepage {
			t.Error("homepage must be excluded")
		}
		if len(node.IncomingLinks) >= 3 {
			t.Errorf("%s has %d incoming, above floor", node.URL, len(node.IncomingLinks))
		}
	}
	// Orphans first, then page-type importance.
	sawNonOrphan := false
	for _, node := range needy {
		if len(node.IncomingLinks) > 0 {
			sawNonOrphan = true
		} else if sawNonOrphan {
			t.Fatal("orphan appeared after non-orphan")
		}
	}
}

func urls(nodes []*models.LinkNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.URL
	}
	return out
}
