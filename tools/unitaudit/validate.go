package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// itemCheck runs variant-specific rules on one entry of a section's list.
type itemCheck func(label, path string, item map[string]any)

type unitValidator struct {
	file     string
	issues   []Issue
	sections int
}

// validateUnit runs the general-field check and every section validator on a decoded
// unit. It returns the issues found and the number of sections checked.
func validateUnit(file string, doc map[string]any) ([]Issue, int) {
	v := &unitValidator{file: file}
	sections, ok := v.checkGeneral(doc)
	if !ok {
		return v.issues, 0
	}

	seen := make(map[SectionType]bool, len(sectionSchemas))
	for i, raw := range sections {
		if t, ok := v.checkSection(i, raw); ok {
			seen[t] = true
		}
	}

	for _, t := range requiredSections {
		if !seen[t] {
			v.addf(CategoryMissingSection, "missing required %q section", t)
		}
	}
	return v.issues, v.sections
}

func (v *unitValidator) addf(category Category, format string, args ...any) {
	v.issues = append(v.issues, Issue{File: v.file, Category: category, Message: fmt.Sprintf(format, args...)})
}

// checkGeneral validates the top-level fields. It returns the section list only when
// section checks can proceed.
func (v *unitValidator) checkGeneral(doc map[string]any) ([]any, bool) {
	for _, key := range unitFields {
		if !present(doc, key) {
			v.addf(CategoryGeneral, "missing field %q", key)
		}
	}
	for _, key := range unitTextFields {
		if !present(doc, key) {
			continue
		}
		s, ok := doc[key].(string)
		switch {
		case !ok:
			v.addf(CategoryGeneral, "field %q must be a string, got %s", key, describeKind(doc[key]))
		case s == "":
			v.addf(CategoryGeneral, "field %q is empty", key)
		}
	}

	if !present(doc, "sections") {
		return nil, false
	}
	sections, ok := doc["sections"].([]any)
	if !ok {
		v.addf(CategoryGeneral, "sections must be an array, got %s", describeKind(doc["sections"]))
		return nil, false
	}
	if len(sections) == 0 {
		v.addf(CategoryGeneral, "sections is empty")
		return nil, false
	}
	return sections, true
}

func (v *unitValidator) checkSection(i int, raw any) (SectionType, bool) {
	sec, ok := raw.(map[string]any)
	if !ok {
		v.addf(CategoryGeneral, "sections[%d] is %s, want object", i, describeKind(raw))
		return "", false
	}
	v.sections++

	if !present(sec, "type") {
		v.addf(CategoryGeneral, "sections[%d]: missing field %q", i, "type")
		return "", false
	}
	name, _ := sec["type"].(string)
	t := SectionType(name)
	schema, known := sectionSchemas[t]
	if !known {
		v.addf(CategoryGeneral, "sections[%d]: unknown type %s", i, compactJSON(sec["type"]))
		return "", false
	}

	category := categoryFor(t)
	prefix := fmt.Sprintf("sections[%d] (%s)", i, t)
	for _, field := range schema.Fields {
		if !present(sec, field) {
			v.addf(category, "%s: missing field %q", prefix, field)
		}
	}

	if schema.List != nil {
		var check itemCheck
		switch t {
		case SectionQuiz:
			check = v.quizCheck(category)
		case SectionFlashcards:
			check = v.flashcardCheck(category)
		}
		v.checkList(category, prefix, sec, *schema.List, check)
	}
	return t, true
}

// checkList validates a required array and each of its entries. A missing, malformed
// or empty array yields one issue and no per-entry checks.
func (v *unitValidator) checkList(category Category, prefix string, parent map[string]any, ls listSchema, check itemCheck) {
	if !present(parent, ls.Key) {
		v.addf(category, "%s: missing field %q", prefix, ls.Key)
		return
	}
	items, ok := parent[ls.Key].([]any)
	if !ok {
		v.addf(category, "%s: %s must be an array, got %s", prefix, ls.Key, describeKind(parent[ls.Key]))
		return
	}
	if len(items) == 0 {
		v.addf(category, "%s: %s is empty", prefix, ls.Key)
		return
	}

	for j, raw := range items {
		path := fmt.Sprintf("%s[%d]", ls.Key, j)
		item, ok := raw.(map[string]any)
		if !ok {
			v.addf(category, "%s: %s is %s, want object", prefix, path, describeKind(raw))
			continue
		}

		label := prefix + ": " + path
		if ctx := pickString(item, ls.Context, ""); ctx != "" {
			label = fmt.Sprintf("%s (%s)", label, ctx)
		}
		for _, field := range ls.Fields {
			if !present(item, field) {
				v.addf(category, "%s: missing field %q", label, field)
			}
		}
		if ls.Nested != nil {
			v.checkList(category, label, item, *ls.Nested, nil)
		}
		if check != nil {
			check(label, path, item)
		}
	}
}

func (v *unitValidator) quizCheck(category Category) itemCheck {
	return func(label, _ string, item map[string]any) {
		if present(item, "options") {
			options, ok := item["options"].([]any)
			switch {
			case !ok:
				v.addf(category, "%s: options must be an array, got %s", label, describeKind(item["options"]))
			case len(options) != quizOptionCount:
				v.addf(category, "%s: expected %d options, got %d", label, quizOptionCount, len(options))
			}
		}
		if present(item, "correct") {
			n, ok := pickInt(item, "correct")
			switch {
			case !ok:
				v.addf(category, "%s: correct must be an integer, got %s", label, compactJSON(item["correct"]))
			case n < quizCorrectMin || n > quizCorrectMax:
				v.addf(category, "%s: correct index %d out of range [%d,%d]", label, n, quizCorrectMin, quizCorrectMax)
			}
		}
	}
}

// flashcardCheck flags legacy front/back cards and repeated cards. The returned check
// carries the seen-set for one section only.
func (v *unitValidator) flashcardCheck(category Category) itemCheck {
	firstSeen := map[string]string{}
	return func(label, path string, item map[string]any) {
		legacy := lo.Filter(legacyCardFields, func(field string, _ int) bool {
			_, ok := item[field]
			return ok
		})
		if len(legacy) > 0 {
			v.addf(category, "%s: outdated card format (%v); use japanese/reading/romaji/chinese", label, legacy)
		}

		key := flashcardKey(item)
		if key == "" {
			return
		}
		if first, dup := firstSeen[key]; dup {
			v.addf(category, "%s: duplicate card %q (first seen at %s)", label, key, first)
			return
		}
		firstSeen[key] = path
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
