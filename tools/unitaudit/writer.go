package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/itchyny/json2yaml"
	"github.com/tidwall/sjson"
)

const (
	markdownReportName = "unit-audit.md"
	jsonReportName     = "unit-audit.json"
	yamlReportName     = "unit-audit.yaml"
)

// writeOutputs persists the report as markdown, JSON and YAML under dir.
func writeOutputs(report *Report, dir string) ([]string, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	data, err := reportJSON(report)
	if err != nil {
		return nil, err
	}
	var yaml bytes.Buffer
	if err := json2yaml.Convert(&yaml, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("convert report to yaml: %w", err)
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{markdownReportName, []byte(generateAudit(report))},
		{jsonReportName, data},
		{yamlReportName, yaml.Bytes()},
	}
	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, out.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// reportJSON encodes the report with a meta block carrying the verdict and totals.
func reportJSON(report *Report) ([]byte, error) {
	if report.Issues == nil {
		report.Issues = []Issue{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	meta := []struct {
		key   string
		value any
	}{
		{"meta.generated_at", time.Now().UTC().Format(time.RFC3339)},
		{"meta.verdict", report.Verdict()},
		{"meta.total", report.Total()},
		{"meta.by_category", report.ByCategory()},
	}
	for _, m := range meta {
		data, err = sjson.SetBytes(data, m.key, m.value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", m.key, err)
		}
	}
	return data, nil
}

// formatReportLines renders the console report. The leading marker of each line picks
// its colour in printReport.
func formatReportLines(report *Report) []string {
	lines := []string{
		"🔍  Unit content audit",
		fmt.Sprintf("    content root: %s", report.ContentRoot),
		fmt.Sprintf("    manifest:     %s", report.Manifest),
		fmt.Sprintf("    started:      %s (run %s)", report.Started.Format(time.RFC3339), report.RunID),
		fmt.Sprintf("📘  %d files scanned | %d units checked | %d sections checked",
			report.Metrics.FilesScanned, report.Metrics.UnitsChecked, report.Metrics.SectionsChecked),
	}

	if rows := report.ByCategory(); len(rows) > 0 {
		lines = append(lines, "", "📊  Findings by category")
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("    %-16s %d", row.Category, row.Count))
		}
	}

	if files := report.ByFile(); len(files) > 0 {
		lines = append(lines, "", "📂  Findings by file")
		for _, group := range files {
			lines = append(lines, fmt.Sprintf("⚠️  %s (%d)", group.File, len(group.Issues)))
			for _, issue := range group.Issues {
				lines = append(lines, fmt.Sprintf("    [%s] %s", issue.Category, issue.Message))
			}
		}
	}

	x := report.CrossRef
	lines = append(lines, "", "🔗  Manifest cross-reference")
	for _, issue := range report.Issues {
		switch issue.Category {
		case CategoryMissingFile:
			lines = append(lines, fmt.Sprintf("🚫  missing file %s: %s", issue.File, issue.Message))
		case CategoryOrphanFile:
			lines = append(lines, fmt.Sprintf("🚫  orphan file %s: %s", issue.File, issue.Message))
		}
	}
	lines = append(lines, fmt.Sprintf("    manifest: %d units | disk: %d units", x.ManifestUnits, x.DiskUnits))
	if x.Passed() {
		lines = append(lines, "✅  cross-reference PASS")
	} else {
		lines = append(lines, fmt.Sprintf("❌  cross-reference FAIL (%d missing, %d orphans)", len(x.Missing), len(x.Orphans)))
	}
	if report.Strict && x.ManifestUnits == 0 {
		lines = append(lines, "❌  strict mode: manifest lists no units")
	}

	lines = append(lines, "")
	if report.Passed() {
		lines = append(lines, fmt.Sprintf("✅  PASS: %d problems", report.Total()))
	} else {
		lines = append(lines, fmt.Sprintf("❌  FAIL: %d problems", report.Total()))
	}
	return lines
}

func stringifyReport(report *Report) string {
	return strings.Join(formatReportLines(report), "\n")
}
