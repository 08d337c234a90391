package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// walkStrings calls visit for every string leaf under value. Sequence elements extend
// the path with [i] and mapping values with .key; keys are visited in sorted order.
func walkStrings(value any, path string, visit func(path, s string)) {
	switch v := value.(type) {
	case string:
		visit(path, v)
	case []any:
		for i, item := range v {
			walkStrings(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	case map[string]any:
		keys := lo.Keys(v)
		slices.Sort(keys)
		for _, key := range keys {
			walkStrings(v[key], joinPath(path, key), visit)
		}
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// scanForbiddenNames reports one issue per string and forbidden name it contains.
func scanForbiddenNames(file string, doc map[string]any, names []string) []Issue {
	issues := make([]Issue, 0)
	walkStrings(doc, "", func(path, s string) {
		for _, name := range names {
			if name != "" && strings.Contains(s, name) {
				issues = append(issues, Issue{
					File:     file,
					Category: CategoryForbiddenName,
					Message:  fmt.Sprintf("%s contains forbidden name %q", path, name),
				})
			}
		}
	})
	return issues
}

// scanEmptyStrings reports empty strings under sections. Empty top-level fields are
// left to the general-field check.
func scanEmptyStrings(file string, doc map[string]any) []Issue {
	issues := make([]Issue, 0)
	walkStrings(doc, "", func(path, s string) {
		if s != "" || !underSections(path) {
			return
		}
		issues = append(issues, Issue{
			File:     file,
			Category: CategoryEmptyString,
			Message:  fmt.Sprintf("%s is an empty string", path),
		})
	})
	return issues
}

func underSections(path string) bool {
	return path == "sections" || strings.HasPrefix(path, "sections[") || strings.HasPrefix(path, "sections.")
}
