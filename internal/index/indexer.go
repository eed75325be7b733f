package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shaoshing/jscs-jsdoc/internal/checker"
	"github.com/shaoshing/jscs-jsdoc/internal/crawler"

	"github.com/google/uuid"
)

// Entry is a violation with its stable fingerprint.
type Entry struct {
	checker.Violation
	Fingerprint string `json:"fingerprint"`
}

// FileError records a file that could not be checked.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Run is the result of checking a project once.
type Run struct {
	ID         string      `json:"id"`
	Root       string      `json:"root"`
	StartedAt  time.Time   `json:"started_at"`
	Files      int         `json:"files"`
	Errors     []FileError `json:"errors,omitempty"`
	Violations []Entry     `json:"violations"`
}

// Indexer orchestrates a project scan into a Run.
type Indexer struct {
	crawler *crawler.Crawler
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler) *Indexer {
	return &Indexer{
		crawler: c,
	}
}

// BuildRun scans the project root and collects every violation.
func (i *Indexer) BuildRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		Root:       root,
		StartedAt:  time.Now().UTC(),
		Violations: []Entry{},
	}

	var violations []checker.Violation
	err := i.crawler.ScanProject(ctx, root, func(r crawler.FileResult) {
		run.Files++
		if r.Err != nil {
			run.Errors = append(run.Errors, FileError{Path: r.Path, Message: r.Err.Error()})
			return
		}
		violations = append(violations, r.Violations...)
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	sort.Slice(run.Errors, func(a, b int) bool { return run.Errors[a].Path < run.Errors[b].Path })
	run.Violations = NewEntries(violations)
	return run, nil
}

// NewEntries sorts violations by position and fingerprints them.
func NewEntries(violations []checker.Violation) []Entry {
	sorted := append([]checker.Violation(nil), violations...)
	sort.SliceStable(sorted, func(a, b int) bool {
		va, vb := sorted[a], sorted[b]
		if va.File != vb.File {
			return va.File < vb.File
		}
		if va.Line != vb.Line {
			return va.Line < vb.Line
		}
		return va.Column < vb.Column
	})

	entries := make([]Entry, 0, len(sorted))
	seen := make(map[string]int)
	for _, v := range sorted {
		key := v.Rule + "|" + v.File + "|" + v.Function + "|" + v.Message
		entries = append(entries, Entry{Violation: v, Fingerprint: Fingerprint(v, seen[key])})
		seen[key]++
	}
	return entries
}

// SaveRun persists the run to a JSON file, for use as a baseline.
func SaveRun(run *Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create baseline file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(run); err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return nil
}

// LoadRun loads a run from a JSON file.
func LoadRun(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline file: %w", err)
	}
	defer f.Close()

	run := &Run{}
	decoder := json.NewDecoder(f)
	if err := decoder.Decode(run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return run, nil
}
