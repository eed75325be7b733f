package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaoshing/jscs-jsdoc/internal/checker"
	"github.com/shaoshing/jscs-jsdoc/internal/crawler"
	"github.com/shaoshing/jscs-jsdoc/internal/existence"
	"github.com/shaoshing/jscs-jsdoc/internal/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndexer(t *testing.T, opts existence.Options) *Indexer {
	t.Helper()
	ext, err := extractor.NewExtractor("javascript")
	require.NoError(t, err)
	return NewIndexer(crawler.NewCrawler(ext, checker.New(opts, nil)))
}

func TestIndexer_BuildRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "b.js"), []byte("var b = function () {};\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("\nvar a2 = function () {};\nvar a1 = function () {};\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.js"), []byte("function ( {"), 0644))

	run, err := newIndexer(t, existence.Options{}).BuildRun(context.Background(), root)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, root, run.Root)
	assert.Equal(t, 3, run.Files)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "bad.js", run.Errors[0].Path)

	require.Len(t, run.Violations, 3)
	assert.Equal(t, "a2", run.Violations[0].Function)
	assert.Equal(t, "a1", run.Violations[1].Function)
	assert.Equal(t, "lib/b.js", run.Violations[2].File)
	for _, e := range run.Violations {
		assert.NotEmpty(t, e.Fingerprint)
	}
}

func TestNewEntries_FingerprintsIgnorePosition(t *testing.T) {
	before := NewEntries([]checker.Violation{
		{Rule: existence.RuleName, Message: existence.MessageRequired, File: "a.js", Line: 3, Function: "foo"},
	})
	after := NewEntries([]checker.Violation{
		{Rule: existence.RuleName, Message: existence.MessageRequired, File: "a.js", Line: 30, Column: 4, Function: "foo"},
	})
	assert.Equal(t, before[0].Fingerprint, after[0].Fingerprint)

	other := NewEntries([]checker.Violation{
		{Rule: existence.RuleName, Message: existence.MessageRequired, File: "b.js", Line: 3, Function: "foo"},
	})
	assert.NotEqual(t, before[0].Fingerprint, other[0].Fingerprint)
}

func TestNewEntries_RepeatedAnonymousViolations(t *testing.T) {
	entries := NewEntries([]checker.Violation{
		{Rule: existence.RuleName, Message: existence.MessageRequired, File: "a.js", Line: 9},
		{Rule: existence.RuleName, Message: existence.MessageRequired, File: "a.js", Line: 2},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Line)
	assert.NotEqual(t, entries[0].Fingerprint, entries[1].Fingerprint)
	assert.Contains(t, entries[0].Fingerprint, "enforceExistence/_:")
}

func TestSaveLoadRun(t *testing.T) {
	run := &Run{
		ID:   "run-1",
		Root: "/src",
		Violations: NewEntries([]checker.Violation{
			{Rule: existence.RuleName, Message: existence.MessageRequired, File: "a.js", Line: 1, Column: 2, Function: "foo"},
		}),
	}
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, SaveRun(run, path))

	loaded, err := LoadRun(path)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.Violations, loaded.Violations)

	_, err = LoadRun(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
