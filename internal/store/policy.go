package store

import (
	"regexp"
	"strings"
)

// defaultForbiddenCategories is the fallback when the policy document is
// missing or carries no recognizable exclusion sentence.
var defaultForbiddenCategories = []string{"hygiene", "personal care", "intimate apparel"}

var forbiddenCategoriesRx = regexp.MustCompile(`categories?\s+such\s+as\s+([a-z0-9,\s\-/&]+)`)

// ForbiddenCategories extracts the category names the returns policy marks
// globally non-returnable. Parsed once per process; the policy document is
// treated as immutable for the process lifetime.
func (s *Service) ForbiddenCategories() []string {
	s.forbiddenOnce.Do(func() {
		s.forbidden = make(map[string]struct{})
		for _, c := range parseForbiddenCategories(s.PolicyText()) {
			s.forbidden[c] = struct{}{}
		}
	})
	out := make([]string, 0, len(s.forbidden))
	for c := range s.forbidden {
		out = append(out, c)
	}
	return out
}

// ForbiddenCategorySet returns the parsed categories as a lookup set.
func (s *Service) ForbiddenCategorySet() map[string]struct{} {
	s.ForbiddenCategories()
	return s.forbidden
}

// parseForbiddenCategories scans the policy text for a
// "categories such as a, b, c" sentence and returns the lowercased names.
func parseForbiddenCategories(policy string) []string {
	text := strings.ToLower(policy)
	if strings.TrimSpace(text) == "" {
		return defaultForbiddenCategories
	}

	m := forbiddenCategoriesRx.FindStringSubmatch(text)
	if m == nil {
		return defaultForbiddenCategories
	}

	var cats []string
	for _, c := range strings.Split(m[1], ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return defaultForbiddenCategories
	}
	return cats
}
