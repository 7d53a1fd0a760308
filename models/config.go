package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GuideRoute is one fixed "core guide" page audited alongside the
// blog. These pages have no single HTML document at audit time, so
// the extractor works from a structured copy file plus the component
// sources that render the page.
type GuideRoute struct {
	ID             string   `yaml:"id"`
	Locale         string   `yaml:"locale"`
	URL            string   `yaml:"url"`
	CopyPath       string   `yaml:"copy_path"`
	ComponentPaths []string `yaml:"component_paths"`
}

// Config holds the site layout and run defaults. All values come from
// siteaudit.yaml when present, falling back to the built-in defaults.
type Config struct {
	Domain          string       `yaml:"domain"`
	Locales         []string     `yaml:"locales"`
	ContentRoot     string       `yaml:"content_root"`
	PagesDir        string       `yaml:"pages_dir"`
	ReportDir       string       `yaml:"report_dir"`
	HistoryDB       string       `yaml:"history_db"`
	ClustersPath    string       `yaml:"clusters_path"`
	ConversionPage  string       `yaml:"conversion_page"`
	BlogIndex       string       `yaml:"blog_index"`
	LearnIndex      string       `yaml:"learn_index"`
	WorkerCount     int          `yaml:"workers"`
	CoreGuideRoutes []GuideRoute `yaml:"core_guide_routes"`
}

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given.
const DefaultConfigFile = "siteaudit.yaml"

// DefaultConfig returns the built-in site layout.
func DefaultConfig() *Config {
	return &Config{
		Domain:         "purrify.ca",
		Locales:        []string{"en", "fr"},
		ContentRoot:    "content/blog",
		PagesDir:       "pages",
		ReportDir:      "reports/content-quality",
		HistoryDB:      "siteaudit.db",
		ClustersPath:   "clusters.yaml",
		ConversionPage: "/products/trial-size",
		BlogIndex:      "/blog",
		LearnIndex:     "/learn",
		WorkerCount:    4,
		CoreGuideRoutes: []GuideRoute{
			{
				ID:       "cat-litter-guide",
				Locale:   "en",
				URL:      "/learn/cat-litter-guide/",
				CopyPath: "content/learn/en/cat-litter-guide.json",
				ComponentPaths: []string{
					"app/learn/cat-litter-guide/CatLitterGuidePageContent.tsx",
					"app/learn/cat-litter-guide/components/HeroSection.tsx",
					"app/learn/cat-litter-guide/components/LitterTypesSection.tsx",
					"app/learn/cat-litter-guide/components/MaintenanceSection.tsx",
					"app/learn/cat-litter-guide/components/ProblemsSection.tsx",
					"app/learn/cat-litter-guide/components/CTASection.tsx",
				},
			},
			{
				ID:       "cat-litter-guide",
				Locale:   "fr",
				URL:      "/fr/learn/cat-litter-guide/",
				CopyPath: "content/learn/fr/cat-litter-guide.json",
				ComponentPaths: []string{
					"app/learn/cat-litter-guide/CatLitterGuidePageContent.tsx",
					"app/learn/cat-litter-guide/components/HeroSection.tsx",
					"app/learn/cat-litter-guide/components/LitterTypesSection.tsx",
					"app/learn/cat-litter-guide/components/MaintenanceSection.tsx",
					"app/learn/cat-litter-guide/components/ProblemsSection.tsx",
					"app/learn/cat-litter-guide/components/CTASection.tsx",
				},
			},
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing
// file is not an error; the defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	return cfg, nil
}
