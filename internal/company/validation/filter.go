package validation

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/companydir/internal/company/models"
)

// Filter expresses a search as the conjunction of the constraints that were
// actually supplied. Nil pointer fields and empty strings impose nothing.
type Filter struct {
	// Name matches as a case-insensitive substring.
	Name string
	// Location matches as a case-insensitive substring of any entry.
	Location string
	// Industry matches exactly.
	Industry string
	// IsActive matches exactly when set.
	IsActive *bool
	// MinEmployees keeps companies with at least this many employees.
	MinEmployees *int
	// CreatedAfter keeps companies created on or after this instant.
	CreatedAfter *time.Time
	// FoundedYear matches exactly when set.
	FoundedYear *int
}

// Empty reports whether the filter imposes no constraint at all.
func (f Filter) Empty() bool {
	return f.Name == "" && f.Location == "" && f.Industry == "" &&
		f.IsActive == nil && f.MinEmployees == nil &&
		f.CreatedAfter == nil && f.FoundedYear == nil
}

// BuildFilter translates raw query parameters into a Filter. Absent
// parameters impose no constraint; unparseable numeric and date values are
// ignored the same way. isActive is true only for the literal "true".
func BuildFilter(params url.Values) Filter {
	f := Filter{
		Name:     strings.TrimSpace(params.Get("name")),
		Location: strings.TrimSpace(params.Get("location")),
		Industry: strings.TrimSpace(params.Get("industry")),
	}
	if params.Has("isActive") {
		active := params.Get("isActive") == "true"
		f.IsActive = &active
	}
	if raw := params.Get("employees"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.MinEmployees = &n
		}
	}
	if raw := params.Get("createdAt"); raw != "" {
		if ts, ok := parseDate(raw); ok {
			f.CreatedAfter = &ts
		}
	}
	if raw := params.Get("foundedYear"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			f.FoundedYear = &year
		}
	}
	return f
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CollectSuggestions gathers, from companies already known to match the
// query, every individual field value (name, industry, location entries)
// that itself contains the query case-insensitively. The result is
// deduplicated; a matching record contributes only the values that matched,
// not its unrelated fields.
func CollectSuggestions(companies []*models.Company, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	suggestions := make([]string, 0, len(companies))
	add := func(value string) {
		if !strings.Contains(strings.ToLower(value), query) {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		suggestions = append(suggestions, value)
	}
	for _, c := range companies {
		add(c.Name)
		add(string(c.Industry))
		for _, loc := range c.Location {
			add(loc)
		}
	}
	return suggestions
}
