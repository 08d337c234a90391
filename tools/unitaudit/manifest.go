package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// ManifestEntry is one (chapter, unit) pair referenced by the course manifest.
type ManifestEntry struct {
	ChapterID int    `json:"chapter_id"`
	UnitID    string `json:"unit_id"`
}

// Path is the conventional location of the unit relative to the content root.
func (e ManifestEntry) Path() string {
	return fmt.Sprintf("ch%d/%s.json", e.ChapterID, e.UnitID)
}

// loadManifest extracts the manifest entries in manifest order. JSON manifests are
// parsed as data; anything else (the chapters.ts source) goes through
// extractSourceManifest.
func loadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONManifest(data)
	}
	return extractSourceManifest(data), nil
}

// parseJSONManifest reads {"chapters":[{"id":1,"units":[{"id":"unit1"}]}]} or a bare
// chapter array.
func parseJSONManifest(data []byte) ([]ManifestEntry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("manifest is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	chapters := root.Get("chapters")
	if !chapters.Exists() && root.IsArray() {
		chapters = root
	}
	if !chapters.IsArray() {
		return nil, errors.New("manifest has no chapters array")
	}

	entries := make([]ManifestEntry, 0)
	for i, chapter := range chapters.Array() {
		id := chapter.Get("id")
		if id.Type != gjson.Number || id.Num != float64(id.Int()) {
			return nil, fmt.Errorf("chapters[%d]: id must be an integer, got %s", i, id.Raw)
		}
		for j, unit := range chapter.Get("units").Array() {
			unitID := unit.Get("id")
			if unitID.Type != gjson.String || !unitIDPattern.MatchString(unitID.Str) {
				return nil, fmt.Errorf("chapters[%d].units[%d]: id must look like unit<N>, got %s", i, j, unitID.Raw)
			}
			entries = append(entries, ManifestEntry{ChapterID: int(id.Int()), UnitID: unitID.Str})
		}
	}
	return entries, nil
}

var sourceIDPattern = regexp.MustCompile("[\"']?\\bid[\"']?\\s*:\\s*(?:(\\d+)|[\"'`]([^\"'`]*)[\"'`])")

// extractSourceManifest pulls entries out of manifest source text without parsing it.
// Every numeric id opens a chapter and every following unit<N> string id belongs to
// it. This relies on the manifest keeping chapter and unit ids as the only id
// properties; a numeric id nested inside a unit entry would start a bogus chapter.
func extractSourceManifest(data []byte) []ManifestEntry {
	entries := make([]ManifestEntry, 0)
	chapter, inChapter := 0, false
	for _, m := range sourceIDPattern.FindAllSubmatch(data, -1) {
		if len(m[1]) > 0 {
			n, err := strconv.Atoi(string(m[1]))
			if err != nil {
				continue
			}
			chapter, inChapter = n, true
			continue
		}
		unitID := string(m[2])
		if inChapter && unitIDPattern.MatchString(unitID) {
			entries = append(entries, ManifestEntry{ChapterID: chapter, UnitID: unitID})
		}
	}
	return entries
}

// crossReference compares manifest and disk as sets.
func crossReference(manifest, disk []ManifestEntry) CrossReference {
	manifest = lo.Uniq(manifest)
	disk = lo.Uniq(disk)
	missing, orphans := lo.Difference(manifest, disk)
	sortManifestEntries(missing)
	sortManifestEntries(orphans)
	return CrossReference{
		ManifestUnits: len(manifest),
		DiskUnits:     len(disk),
		Missing:       missing,
		Orphans:       orphans,
	}
}

// crossReferenceIssues turns the comparison into issues. rel maps disk entries to
// their actual relative path.
func crossReferenceIssues(x CrossReference, rel map[ManifestEntry]string) []Issue {
	issues := make([]Issue, 0, len(x.Missing)+len(x.Orphans))
	for _, entry := range x.Missing {
		issues = append(issues, Issue{
			File:     entry.Path(),
			Category: CategoryMissingFile,
			Message:  fmt.Sprintf("chapter %d lists %s but no file exists", entry.ChapterID, entry.UnitID),
		})
	}
	for _, entry := range x.Orphans {
		file, ok := rel[entry]
		if !ok {
			file = entry.Path()
		}
		issues = append(issues, Issue{
			File:     file,
			Category: CategoryOrphanFile,
			Message:  fmt.Sprintf("%s is not listed in chapter %d of the manifest", entry.UnitID, entry.ChapterID),
		})
	}
	return issues
}
