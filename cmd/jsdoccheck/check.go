package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shaoshing/jscs-jsdoc/internal/analysis"
	"github.com/shaoshing/jscs-jsdoc/internal/checker"
	"github.com/shaoshing/jscs-jsdoc/internal/config"
	"github.com/shaoshing/jscs-jsdoc/internal/crawler"
	"github.com/shaoshing/jscs-jsdoc/internal/extractor"
	"github.com/shaoshing/jscs-jsdoc/internal/git"
	"github.com/shaoshing/jscs-jsdoc/internal/index"
	"github.com/shaoshing/jscs-jsdoc/internal/report"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// errFailed signals that the check found problems; the message has already
// been written by the formatter.
var errFailed = errors.New("check failed")

type checkOptions struct {
	format        string
	since         string
	baseline      string
	writeBaseline string
	color         bool
}

var checkFlags checkOptions

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check JavaScript files for missing jsdoc comments",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}

		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}

		opts := checkFlags
		opts.color = opts.format == report.FormatText && isatty.IsTerminal(os.Stdout.Fd())

		err = runCheck(cmd.Context(), cfg, root, opts, os.Stdout, os.Stderr)
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("Check failed: %v", err)
		}
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", report.FormatText, "Output format: text or json")
	checkCmd.Flags().StringVar(&checkFlags.since, "since", "", "Only report violations on lines changed since this git ref")
	checkCmd.Flags().StringVar(&checkFlags.baseline, "baseline", "", "Ignore violations recorded in this baseline file")
	checkCmd.Flags().StringVar(&checkFlags.writeBaseline, "write-baseline", "", "Write the full result of this run to a baseline file")
}

// runCheck scans root, records the run and prints what remains after
// filtering. It returns errFailed when a violation or file error remains.
func runCheck(ctx context.Context, cfg *config.Config, root string, opts checkOptions, out, progress io.Writer) error {
	formatter, err := report.NewFormatter(opts.format, out, opts.color)
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	// 1. Setup Extractor & Checker
	ext, err := extractor.NewExtractor("javascript")
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}
	chk := checker.New(cfg.Options(), newLogger(cfg.JSDoc.Verbose))

	crawlOpts := []crawler.Option{crawler.WithExclude(cfg.Project.Exclude...)}

	// 2. Narrow the scan to changed files
	var changes []git.ChangedFile
	var prefix string
	if opts.since != "" {
		changes, prefix, err = changedFiles(absRoot, opts.since)
		if err != nil {
			return err
		}
		fmt.Fprintf(progress, "📝 Detected %d changed files since %s.\n", len(changes), opts.since)
		crawlOpts = append(crawlOpts, crawler.WithFiles(analysis.ChangedPaths(changes, prefix)...))
	}

	// 3. Scan
	fmt.Fprintf(progress, "📂 Checking directory: %s\n", absRoot)
	start := time.Now()
	idx := index.NewIndexer(crawler.NewCrawler(ext, chk, crawlOpts...))
	run, err := idx.BuildRun(ctx, absRoot)
	if err != nil {
		return err
	}
	fmt.Fprintf(progress, "✅ Checked %d files in %v.\n", run.Files, time.Since(start).Round(time.Millisecond))

	// 4. Record
	if err := recordRun(ctx, cfg, run, progress); err != nil {
		return err
	}
	if opts.writeBaseline != "" {
		if err := index.SaveRun(run, opts.writeBaseline); err != nil {
			return err
		}
		fmt.Fprintf(progress, "💾 Baseline written: %s\n", opts.writeBaseline)
	}

	// 5. Filter
	violations := run.Violations
	if opts.since != "" {
		violations = analysis.NewAnalyzer(run).Touched(changes, prefix)
	}
	if opts.baseline != "" {
		baseline, err := index.LoadRun(opts.baseline)
		if err != nil {
			return err
		}
		violations = analysis.NewAnalyzer(&index.Run{Violations: violations}).WithoutBaseline(baseline)
	}

	// 6. Report
	if err := formatter.Format(violations, run.Errors); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if len(violations) > 0 || len(run.Errors) > 0 {
		return errFailed
	}
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, run *index.Run, progress io.Writer) error {
	store, err := initStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if store == nil {
		return nil
	}
	defer store.Close()

	if err := store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Fprintf(progress, "💾 Run %s saved to %s\n", run.ID, cfg.Storage.Path)
	return nil
}

// changedFiles returns the diff against since together with the location of
// absRoot inside the repository.
func changedFiles(absRoot, since string) ([]git.ChangedFile, string, error) {
	top, err := git.RepoRoot(absRoot)
	if err != nil {
		return nil, "", err
	}

	// git reports the top level with symlinks resolved.
	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, "", err
	}
	prefix, err := filepath.Rel(top, resolved)
	if err != nil {
		return nil, "", err
	}

	changes, err := git.GetChangedFiles(top, since)
	if err != nil {
		return nil, "", err
	}
	return changes, prefix, nil
}
