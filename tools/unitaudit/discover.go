package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	chapterDirPattern = regexp.MustCompile(`^ch(\d+)$`)
	unitFilePattern   = regexp.MustCompile(`^unit(\d+)\.json$`)
	unitIDPattern     = regexp.MustCompile(`^unit(\d+)$`)
)

// UnitRef locates one unit document on disk.
type UnitRef struct {
	Chapter int
	Number  int
	UnitID  string
	Path    string
	Rel     string // relative to the content root, forward slashes
}

// Entry is the manifest key for this unit.
func (u UnitRef) Entry() ManifestEntry {
	return ManifestEntry{ChapterID: u.Chapter, UnitID: u.UnitID}
}

// discoverUnits lists ch<N>/unit<N>.json files under root in numeric order.
// Unreadable chapter directories are reported as parse issues.
func discoverUnits(root string, logger *log.Logger) ([]UnitRef, []Issue, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("content root %s does not exist", root)
		}
		return nil, nil, fmt.Errorf("stat content root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", root)
	}

	chapters, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read content root: %w", err)
	}

	refs := make([]UnitRef, 0)
	issues := make([]Issue, 0)
	for _, chapter := range chapters {
		m := chapterDirPattern.FindStringSubmatch(chapter.Name())
		if !chapter.IsDir() || m == nil {
			logger.Debug("skipping", "entry", chapter.Name())
			continue
		}
		chapterID, _ := strconv.Atoi(m[1])
		dir := filepath.Join(root, chapter.Name())

		files, err := os.ReadDir(dir)
		if err != nil {
			issues = append(issues, Issue{File: chapter.Name(), Category: CategoryParse, Message: err.Error()})
			continue
		}
		for _, file := range files {
			fm := unitFilePattern.FindStringSubmatch(file.Name())
			if file.IsDir() || fm == nil {
				logger.Debug("skipping", "entry", path.Join(chapter.Name(), file.Name()))
				continue
			}
			number, _ := strconv.Atoi(fm[1])
			refs = append(refs, UnitRef{
				Chapter: chapterID,
				Number:  number,
				UnitID:  strings.TrimSuffix(file.Name(), ".json"),
				Path:    filepath.Join(dir, file.Name()),
				Rel:     path.Join(chapter.Name(), file.Name()),
			})
		}
	}

	sortUnitRefs(refs)
	return refs, issues, nil
}

func unitNumber(unitID string) (int, bool) {
	m := unitIDPattern.FindStringSubmatch(unitID)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
