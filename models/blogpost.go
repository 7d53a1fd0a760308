package models

// BlogSeo is the SEO metadata block of a blog post file.
type BlogSeo struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Canonical   string   `json:"canonical,omitempty"`
	OgImage     string   `json:"ogImage,omitempty"`
}

// BlogImage is a featured-image reference.
type BlogImage struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// BlogPost mirrors the on-disk JSON shape of one blog post. Content
// is an HTML fragment. Only status "published" posts are audited.
type BlogPost struct {
	Slug          string     `json:"slug,omitempty"`
	Title         string     `json:"title,omitempty"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content,omitempty"`
	Status        string     `json:"status,omitempty"`
	PublishDate   string     `json:"publishDate,omitempty"`
	ModifiedDate  string     `json:"modifiedDate,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	FeaturedImage *BlogImage `json:"featuredImage,omitempty"`
	Seo           *BlogSeo   `json:"seo,omitempty"`
}

// StatusPublished is the only post status the auditor considers.
const StatusPublished = "published"
