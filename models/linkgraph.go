package models

// PageType buckets a page URL by site section.
type PageType string

const (
	PageHomepage PageType = "homepage"
	PageProduct  PageType = "product"
	PageBlog     PageType = "blog"
	PageLearn    PageType = "learn"
	PageLocation PageType = "location"
	PageOther    PageType = "other"
)

// LinkNode is one page in the internal link graph. Edge lists are
// membership sets (duplicates collapsed). LinkScore weights incoming
// links 3x to emphasize link equity received.
type LinkNode struct {
	URL           string   `json:"url"`
	IncomingLinks []string `json:"incomingLinks"`
	OutgoingLinks []string `json:"outgoingLinks"`
	PageType      PageType `json:"pageType"`
	LinkScore     int      `json:"linkScore"`
}

// TopicCluster is one curated hub-and-spoke group. It describes the
// intended internal-linking topology, independent of the crawled
// graph.
type TopicCluster struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	HubPage     string   `json:"hubPage" yaml:"hub_page"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Spokes      []string `json:"spokes" yaml:"spokes"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// LinkSuggestion is a directed "add a link from A to B" proposal.
type LinkSuggestion struct {
	FromPage   string `json:"fromPage"`
	ToPage     string `json:"toPage"`
	Reason     string `json:"reason"`
	Priority   string `json:"priority"`
	AnchorText string `json:"anchorText,omitempty"`
	Context    string `json:"context,omitempty"`
}
