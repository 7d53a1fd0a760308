// Package models defines the shared value types for audit runs,
// link-graph analysis, and configuration.
package models

// ContentClass is the structural archetype assigned to a page. Each
// class carries its own depth and structure thresholds.
type ContentClass string

const (
	ClassPillarGuide ContentClass = "pillar_guide"
	ClassComparison  ContentClass = "comparison"
	ClassHowTo       ContentClass = "how_to"
	ClassQuickAnswer ContentClass = "quick_answer"
)

// ContentThresholds holds the hand-tuned depth targets for one
// content class. Values are constants, not derived data.
type ContentThresholds struct {
	MinWords              int `json:"minWords"`
	MaxWords              int `json:"maxWords"`
	MinH2                 int `json:"minH2"`
	MinH3                 int `json:"minH3"`
	MinInlineImages       int `json:"minInlineImages"`
	MaxWordsBetweenImages int `json:"maxWordsBetweenImages"`
	MinInternalLinks      int `json:"minInternalLinks"`
	MinExternalLinks      int `json:"minExternalLinks"`
}

// PageMetrics is the fixed set of structural measurements extracted
// from one page's content. All fields are non-negative.
type PageMetrics struct {
	Words                 int `json:"words"`
	H2                    int `json:"h2"`
	H3                    int `json:"h3"`
	Paragraphs            int `json:"paragraphs"`
	InlineImages          int `json:"inlineImages"`
	TotalImages           int `json:"totalImages"`
	InternalLinks         int `json:"internalLinks"`
	ExternalLinks         int `json:"externalLinks"`
	MaxWordsBetweenImages int `json:"maxWordsBetweenImages"`
	ListCount             int `json:"listCount"`
	TableCount            int `json:"tableCount"`
	CalloutCount          int `json:"calloutCount"`
}

// GscMetrics carries external search-console performance signals for
// one URL. CTR is a fraction in [0,1]; Position is >= 1.
type GscMetrics struct {
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// ScoreBreakdown is the composite quality score for one page. Overall
// is a fixed weighted sum of the six sub-scores and is never
// recomputed elsewhere.
type ScoreBreakdown struct {
	Overall           int `json:"overall"`
	WordCount         int `json:"wordCount"`
	Headings          int `json:"headings"`
	MediaDistribution int `json:"mediaDistribution"`
	Links             int `json:"links"`
	LayoutReadability int `json:"layoutReadability"`
	SeoMetadata       int `json:"seoMetadata"`
}

// Recommendation categories.
const (
	CategoryContentDepth = "content_depth"
	CategorySeoMeta      = "seo_meta"
	CategoryImageLayout  = "image_layout"
	CategoryLinking      = "linking"
	CategoryStructure    = "structure"
	CategoryLayout       = "layout"
)

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one suggested remediation for a page.
// AutoFixCandidate marks categories a remediation script may insert
// content for mechanically; the rest need editorial judgment.
type Recommendation struct {
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	Message          string `json:"message"`
	AutoFixCandidate bool   `json:"autoFixCandidate"`
}

// Priority tiers.
const (
	TierP0 = "P0"
	TierP1 = "P1"
	TierP2 = "P2"
)

// Source types for audited pages.
const (
	SourceBlog  = "blog"
	SourceLearn = "learn"
)

// AuditEntry is the full audit result for one page. Entries are
// rebuilt from source files on every run; the natural key is
// (locale, sourceType, slug).
type AuditEntry struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Locale     string `json:"locale"`
	SourceType string `json:"sourceType"`
	SourcePath string `json:"sourcePath"`
	Status     string `json:"status"`

	ContentClass ContentClass      `json:"contentClass"`
	Thresholds   ContentThresholds `json:"thresholds"`

	Metrics PageMetrics    `json:"metrics"`
	Score   ScoreBreakdown `json:"score"`
	Gsc     *GscMetrics    `json:"gsc,omitempty"`

	PriorityScore int    `json:"priorityScore"`
	PriorityTier  string `json:"priorityTier"`

	Recommendations []Recommendation `json:"recommendations"`

	// Locale integrity signal: ISO 639-1 code detected from the body
	// text, empty when the text was too short to classify.
	DetectedLanguage string `json:"detectedLanguage,omitempty"`
	LanguageMismatch bool   `json:"languageMismatch,omitempty"`

	// Top body keywords, "word:count" strings.
	TopKeywords []string `json:"topKeywords,omitempty"`
	// SEO keywords declared in metadata but absent from the body.
	MissingKeywords []string `json:"missingKeywords,omitempty"`
}

// AuditError records a page that could not be processed. A bad file
// never aborts the batch.
type AuditError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// LocaleSummary aggregates one locale's entries.
type LocaleSummary struct {
	Locale             string `json:"locale"`
	Pages              int    `json:"pages"`
	P0                 int    `json:"p0"`
	P1                 int    `json:"p1"`
	P2                 int    `json:"p2"`
	BelowWordTarget    int    `json:"belowWordTarget"`
	MissingImageTarget int    `json:"missingImageTarget"`
	MissingLinkTarget  int    `json:"missingLinkTarget"`
	LanguageMismatch   int    `json:"languageMismatch"`
}

// AuditSummary heads an AuditReport. Counts reflect the post-filter,
// pre-limit population.
type AuditSummary struct {
	ScannedAt     string          `json:"scannedAt"`
	TotalPages    int             `json:"totalPages"`
	P0            int             `json:"p0"`
	P1            int             `json:"p1"`
	P2            int             `json:"p2"`
	LocaleSummary []LocaleSummary `json:"localeSummary"`
	Errors        []AuditError    `json:"errors,omitempty"`
}

// AuditReport is the persisted artifact of one audit run. Entries are
// sorted by priority score descending; ties preserve enumeration
// order (locale order, then sorted slugs).
type AuditReport struct {
	Summary AuditSummary `json:"summary"`
	Entries []AuditEntry `json:"entries"`
}
