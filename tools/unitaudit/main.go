package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

var errAuditFailed = errors.New("audit failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	defaults := DefaultConfig()

	root := &cobra.Command{
		Use:           "unitaudit",
		Short:         "Audit course unit JSON against the content schema and the chapter manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := loadConfig(cmd.Flags(), configPath)
			if err != nil {
				color.New(color.FgHiRed).Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				return err
			}
			logger := newLogger(cfg.Verbose)
			if used != "" {
				logger.Debug("loaded config", "path", used)
			}

			report, err := runAudit(cmd.Context(), cfg, logger)
			if err != nil {
				printFatal(report, err)
				return err
			}
			printReport(report)

			if cfg.Write {
				written, err := writeOutputs(report, cfg.ReportDir)
				if err != nil {
					color.New(color.FgHiRed).Printf("error: %v\n", err)
					return err
				}
				for _, path := range written {
					logger.Info("wrote report", "path", path)
				}
			}
			if !report.Passed() {
				return errAuditFailed
			}
			return nil
		},
	}

	root.Flags().String("root", defaults.ContentRoot, "content root holding ch<N>/unit<N>.json")
	root.Flags().String("manifest", defaults.Manifest, "course manifest (chapters.ts or chapters.json)")
	root.Flags().StringSlice("forbidden", defaults.ForbiddenNames, "forbidden substrings (repeatable)")
	root.Flags().Bool("write", false, "write markdown, JSON and YAML reports")
	root.Flags().String("report-dir", defaults.ReportDir, "directory for written reports")
	root.Flags().Bool("strict", false, "fail when the manifest lists no units")
	root.Flags().BoolP("verbose", "v", false, "log discovery and per-file progress")
	root.Flags().StringVar(&configPath, "config", "", "config file (default ./.unitaudit.{yaml,json,toml})")

	return root
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "unitaudit",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// runAudit performs one full pass: discover, parse, validate, scan, cross-reference.
// Only an unusable content root or manifest aborts the run; the partial report is
// returned alongside the error.
func runAudit(_ context.Context, cfg RunnerConfig, logger *log.Logger) (*Report, error) {
	report := &Report{
		RunID:       ksuid.New().String(),
		ContentRoot: cfg.ContentRoot,
		Manifest:    cfg.Manifest,
		Started:     time.Now(),
		Strict:      cfg.Strict,
		Issues:      make([]Issue, 0),
	}
	defer func() { report.Duration = time.Since(report.Started) }()

	refs, dirIssues, err := discoverUnits(cfg.ContentRoot, logger)
	if err != nil {
		return report, err
	}
	report.add(dirIssues...)

	disk := make([]ManifestEntry, 0, len(refs))
	rel := make(map[ManifestEntry]string, len(refs))
	for _, ref := range refs {
		report.Metrics.FilesScanned++
		report.trackFile(ref.Rel)
		disk = append(disk, ref.Entry())
		rel[ref.Entry()] = ref.Rel

		issues, sections, ok := auditUnit(ref, cfg.ForbiddenNames)
		if ok {
			report.Metrics.UnitsChecked++
			report.Metrics.SectionsChecked += sections
		}
		logger.Debug("checked", "file", ref.Rel, "sections", sections, "issues", len(issues))
		report.add(issues...)
	}

	manifest, err := loadManifest(cfg.Manifest)
	if err != nil {
		return report, err
	}
	report.CrossRef = crossReference(manifest, disk)
	report.add(crossReferenceIssues(report.CrossRef, rel)...)
	return report, nil
}

// auditUnit loads one unit and runs every check on it. ok is false when the file
// could not be parsed.
func auditUnit(ref UnitRef, forbidden []string) ([]Issue, int, bool) {
	doc, parseIssue := loadUnit(ref)
	if parseIssue != nil {
		return []Issue{*parseIssue}, 0, false
	}
	issues, sections := validateUnit(ref.Rel, doc)
	issues = append(issues, scanForbiddenNames(ref.Rel, doc, forbidden)...)
	issues = append(issues, scanEmptyStrings(ref.Rel, doc)...)
	return issues, sections, true
}

func printReport(report *Report) {
	for _, line := range formatReportLines(report) {
		switch {
		case strings.HasPrefix(line, "❌"):
			color.New(color.FgHiRed).Println(line)
		case strings.HasPrefix(line, "⚠️"):
			color.New(color.FgYellow).Println(line)
		case strings.HasPrefix(line, "✅"):
			color.New(color.FgGreen).Println(line)
		case strings.HasPrefix(line, "🚫"):
			color.New(color.FgRed).Println(line)
		case strings.HasPrefix(line, "🔍"), strings.HasPrefix(line, "🔗"):
			color.New(color.FgHiCyan).Println(line)
		default:
			color.New(color.FgWhite).Println(line)
		}
	}
}

// printFatal reports a run that could not complete and still ends with a verdict.
func printFatal(report *Report, runErr error) {
	color.New(color.FgHiRed).Printf("error: %v\n", runErr)
	total := 0
	if report != nil {
		total = report.Total()
	}
	color.New(color.FgHiRed).Printf("❌  FAIL: run aborted after %d problems\n", total)
}
