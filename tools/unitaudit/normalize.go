package main

import (
	"strings"

	"golang.org/x/exp/slices"
)

func sortUnitRefs(refs []UnitRef) {
	slices.SortFunc(refs, func(a, b UnitRef) int {
		if a.Chapter != b.Chapter {
			return a.Chapter - b.Chapter
		}
		if a.Number != b.Number {
			return a.Number - b.Number
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func sortManifestEntries(entries []ManifestEntry) {
	slices.SortFunc(entries, compareManifestEntries)
}

func compareManifestEntries(a, b ManifestEntry) int {
	if a.ChapterID != b.ChapterID {
		return a.ChapterID - b.ChapterID
	}
	an, aok := unitNumber(a.UnitID)
	bn, bok := unitNumber(b.UnitID)
	if aok && bok && an != bn {
		return an - bn
	}
	return strings.Compare(a.UnitID, b.UnitID)
}

// flashcardKey is the value duplicate detection compares. Legacy cards are keyed by
// their front text so that a half-migrated deck still has its repeats reported.
func flashcardKey(card map[string]any) string {
	if key := pickString(card, "japanese", ""); key != "" {
		return key
	}
	return pickString(card, "front", "")
}
