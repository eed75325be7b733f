package git

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

type ChangedFile struct {
	Path         string
	ChangedLines []int
}

// Touches reports whether line was added or modified.
func (c ChangedFile) Touches(line int) bool {
	for _, l := range c.ChangedLines {
		if l == line {
			return true
		}
	}
	return false
}

// GetChangedFiles runs git diff against baseRef in dir and returns the changed
// files with the line numbers they now occupy.
func GetChangedFiles(dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.Command("git", "diff", "-U0", "--no-color", baseRef)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return ParseDiff(output)
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ParseDiff extracts changed files from unified diff output. Deleted files are
// skipped since nothing in them can be checked.
func ParseDiff(output []byte) ([]ChangedFile, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	var changes []ChangedFile
	for _, fd := range fileDiffs {
		if fd.NewName == "/dev/null" {
			continue
		}
		change := ChangedFile{Path: strings.TrimPrefix(fd.NewName, "b/"), ChangedLines: []int{}}
		for _, hunk := range fd.Hunks {
			// A zero-length new range is a pure deletion.
			for i := int32(0); i < hunk.NewLines; i++ {
				change.ChangedLines = append(change.ChangedLines, int(hunk.NewStartLine+i))
			}
		}
		changes = append(changes, change)
	}

	return changes, nil
}
