package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Issue is a single finding. Cross-reference findings carry the expected unit path in File.
type Issue struct {
	File     string   `json:"file"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

type Metrics struct {
	FilesScanned    int `json:"files_scanned"`
	UnitsChecked    int `json:"units_checked"`
	SectionsChecked int `json:"sections_checked"`
}

// CrossReference summarizes the manifest comparison.
type CrossReference struct {
	ManifestUnits int             `json:"manifest_units"`
	DiskUnits     int             `json:"disk_units"`
	Missing       []ManifestEntry `json:"missing"`
	Orphans       []ManifestEntry `json:"orphans"`
}

// Passed reports whether the manifest and the disk agree.
func (c CrossReference) Passed() bool {
	return len(c.Missing) == 0 && len(c.Orphans) == 0
}

// CategoryCount is one row of the findings-by-category summary.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// FileIssues groups the issues recorded against one unit file.
type FileIssues struct {
	File   string  `json:"file"`
	Issues []Issue `json:"issues"`
}

// Report is the result of one audit run.
type Report struct {
	RunID       string         `json:"run_id"`
	ContentRoot string         `json:"content_root"`
	Manifest    string         `json:"manifest"`
	Started     time.Time      `json:"started"`
	Duration    time.Duration  `json:"duration"`
	Metrics     Metrics        `json:"metrics"`
	Issues      []Issue        `json:"issues"`
	CrossRef    CrossReference `json:"cross_reference"`
	Strict      bool           `json:"strict"`

	files []string
}

func (r *Report) add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// trackFile registers a file so that ByFile lists files in discovery order.
func (r *Report) trackFile(file string) {
	if !slices.Contains(r.files, file) {
		r.files = append(r.files, file)
	}
}

// Total is the number of problems found, cross-reference findings included.
func (r *Report) Total() int {
	return len(r.Issues)
}

// Passed reports the run verdict.
func (r *Report) Passed() bool {
	if r.Strict && r.CrossRef.ManifestUnits == 0 {
		return false
	}
	return r.Total() == 0
}

// Verdict renders the verdict as PASS or FAIL.
func (r *Report) Verdict() string {
	if r.Passed() {
		return "PASS"
	}
	return "FAIL"
}

// ByCategory counts issues per category, largest first.
func (r *Report) ByCategory() []CategoryCount {
	grouped := lo.GroupBy(r.Issues, func(issue Issue) Category {
		return issue.Category
	})
	rows := lo.MapToSlice(grouped, func(c Category, issues []Issue) CategoryCount {
		return CategoryCount{Category: c, Count: len(issues)}
	})
	slices.SortFunc(rows, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})
	return rows
}

// ByFile groups the per-unit issues by file. Cross-reference findings are excluded.
func (r *Report) ByFile() []FileIssues {
	grouped := lo.GroupBy(lo.Filter(r.Issues, func(issue Issue, _ int) bool {
		return !issue.Category.isCrossReference()
	}), func(issue Issue) string {
		return issue.File
	})

	extra := lo.Filter(lo.Keys(grouped), func(file string, _ int) bool {
		return !slices.Contains(r.files, file)
	})
	slices.Sort(extra)
	order := append(append([]string(nil), r.files...), extra...)

	out := make([]FileIssues, 0, len(grouped))
	for _, file := range order {
		if issues, ok := grouped[file]; ok {
			out = append(out, FileIssues{File: file, Issues: issues})
		}
	}
	return out
}

// generateAudit renders the report as a markdown document.
func generateAudit(report *Report) string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "# Unit Content Audit\n\n")
	fmt.Fprintf(buf, "- Run: %s\n", report.RunID)
	fmt.Fprintf(buf, "- Run started: %s\n", report.Started.Format(time.RFC3339))
	fmt.Fprintf(buf, "- Duration: %s\n", report.Duration.String())
	fmt.Fprintf(buf, "- Content root: `%s`\n", report.ContentRoot)
	fmt.Fprintf(buf, "- Manifest: `%s`\n", report.Manifest)
	fmt.Fprintf(buf, "- Files scanned: %d\n", report.Metrics.FilesScanned)
	fmt.Fprintf(buf, "- Units checked: %d\n", report.Metrics.UnitsChecked)
	fmt.Fprintf(buf, "- Sections checked: %d\n", report.Metrics.SectionsChecked)
	fmt.Fprintf(buf, "- Verdict: **%s** (%d problems)\n", report.Verdict(), report.Total())

	if rows := report.ByCategory(); len(rows) > 0 {
		fmt.Fprintf(buf, "\n## Findings by category\n\n")
		fmt.Fprintf(buf, "| Category | Count |\n|---|---|\n")
		for _, row := range rows {
			fmt.Fprintf(buf, "| %s | %d |\n", row.Category, row.Count)
		}
	}

	if files := report.ByFile(); len(files) > 0 {
		fmt.Fprintf(buf, "\n## Findings by file\n")
		for _, group := range files {
			fmt.Fprintf(buf, "\n### `%s`\n\n", group.File)
			for _, issue := range group.Issues {
				fmt.Fprintf(buf, "- [%s] %s\n", issue.Category, summarizeReason(issue.Message))
			}
		}
	}

	fmt.Fprintf(buf, "\n## Manifest cross-reference\n\n")
	fmt.Fprintf(buf, "- Manifest units: %d\n", report.CrossRef.ManifestUnits)
	fmt.Fprintf(buf, "- Units on disk: %d\n", report.CrossRef.DiskUnits)
	for _, entry := range report.CrossRef.Missing {
		fmt.Fprintf(buf, "- missing file `%s`\n", entry.Path())
	}
	for _, entry := range report.CrossRef.Orphans {
		fmt.Fprintf(buf, "- orphan file `%s`\n", entry.Path())
	}
	return buf.String()
}

func summarizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > 160 {
		return string([]rune(reason)[:157]) + "..."
	}
	return reason
}
