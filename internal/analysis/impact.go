package analysis

import (
	"path/filepath"
	"strings"

	"github.com/shaoshing/jscs-jsdoc/internal/git"
	"github.com/shaoshing/jscs-jsdoc/internal/index"
)

// Analyzer narrows the violations of a run.
type Analyzer struct {
	run *index.Run
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(run *index.Run) *Analyzer {
	return &Analyzer{run: run}
}

// Touched keeps the violations reported on a line the changes added or
// modified. prefix is the scan root relative to the repository root, so that
// diff paths and run paths line up.
func (a *Analyzer) Touched(changes []git.ChangedFile, prefix string) []index.Entry {
	byPath := make(map[string]git.ChangedFile, len(changes))
	for _, change := range changes {
		byPath[change.Path] = change
	}

	kept := []index.Entry{}
	for _, e := range a.run.Violations {
		change, ok := byPath[repoPath(prefix, e.File)]
		if ok && change.Touches(e.Line) {
			kept = append(kept, e)
		}
	}
	return kept
}

// WithoutBaseline drops the violations already present in baseline.
func (a *Analyzer) WithoutBaseline(baseline *index.Run) []index.Entry {
	known := make(map[string]bool, len(baseline.Violations))
	for _, e := range baseline.Violations {
		known[e.Fingerprint] = true
	}

	kept := []index.Entry{}
	for _, e := range a.run.Violations {
		if !known[e.Fingerprint] {
			kept = append(kept, e)
		}
	}
	return kept
}

// ChangedPaths lists the changed files that fall under prefix, relative to it.
func ChangedPaths(changes []git.ChangedFile, prefix string) []string {
	var paths []string
	for _, change := range changes {
		rel, err := filepath.Rel(cleanPrefix(prefix), filepath.FromSlash(change.Path))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths
}

func repoPath(prefix, file string) string {
	return filepath.ToSlash(filepath.Join(cleanPrefix(prefix), filepath.FromSlash(file)))
}

func cleanPrefix(prefix string) string {
	if prefix == "" {
		return "."
	}
	return filepath.Clean(prefix)
}
