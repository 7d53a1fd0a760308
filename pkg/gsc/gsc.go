// Package gsc loads search-console performance exports. The data is
// an optional input: a missing or unreadable file yields an empty map
// and the priority ranking falls back to quality-only.
package gsc

import (
	"encoding/csv"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/purrify/siteaudit/models"
)

// Map indexes GscMetrics by normalized page path.
type Map map[string]models.GscMetrics

// NormalizePathURL reduces any URL form to a path with a trailing
// slash. Absolute URLs keep only their path; query and fragment are
// dropped.
func NormalizePathURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "/"
	}
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		trimmed = parsed.Path
		if trimmed == "" {
			trimmed = "/"
		}
	} else {
		if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
			trimmed = trimmed[:i]
		}
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

// parseNumber coerces a CSV cell to a float. Percent signs are
// stripped and comma decimals accepted; anything unparseable is 0.
func parseNumber(value string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(value, "%", ""), ",", "."))
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// Load reads a search-performance CSV into a per-URL map. The header
// row names the columns; the URL column may be called url, page, or
// path. CTR values above 1 are treated as percentages. Rows without a
// usable URL are dropped.
func Load(csvPath string) Map {
	result := Map{}
	if csvPath == "" {
		return result
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return result
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return result
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	urlCol, ok := cols["url"]
	if !ok {
		if urlCol, ok = cols["page"]; !ok {
			if urlCol, ok = cols["path"]; !ok {
				return result
			}
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for _, row := range records[1:] {
		if urlCol >= len(row) {
			continue
		}
		rawURL := strings.TrimSpace(row[urlCol])
		if rawURL == "" {
			continue
		}
		ctr := parseNumber(cell(row, "ctr"))
		if ctr > 1 {
			ctr /= 100
		}
		result[NormalizePathURL(rawURL)] = models.GscMetrics{
			Clicks:      parseNumber(cell(row, "clicks")),
			Impressions: parseNumber(cell(row, "impressions")),
			CTR:         ctr,
			Position:    parseNumber(cell(row, "position")),
		}
	}
	return result
}
