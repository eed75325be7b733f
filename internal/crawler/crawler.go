package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/shaoshing/jscs-jsdoc/internal/checker"
	"github.com/shaoshing/jscs-jsdoc/internal/extractor"

	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of checking one file. Err is set when the file
// could not be read or parsed; the scan continues regardless.
type FileResult struct {
	Path       string
	Violations []checker.Violation
	Err        error
}

// Crawler scans a directory for source files and checks each of them.
type Crawler struct {
	extractor   *extractor.Extractor
	checker     *checker.Checker
	ignored     []string
	exclude     []string
	only        map[string]bool
	concurrency int
}

// Option customizes a Crawler.
type Option func(*Crawler)

// WithExclude skips files whose slash-separated path relative to the scan
// root matches one of the path.Match patterns.
func WithExclude(patterns ...string) Option {
	return func(c *Crawler) { c.exclude = append(c.exclude, patterns...) }
}

// WithFiles restricts the scan to the given root-relative paths.
func WithFiles(paths ...string) Option {
	return func(c *Crawler) {
		c.only = make(map[string]bool, len(paths))
		for _, p := range paths {
			c.only[filepath.ToSlash(filepath.Clean(p))] = true
		}
	}
}

// WithConcurrency bounds the number of files checked at once.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor, chk *checker.Checker, opts ...Option) *Crawler {
	c := &Crawler{
		extractor:   ext,
		checker:     chk,
		ignored:     []string{".git", "node_modules", "vendor", "bower_components", "testdata"},
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ScanProject walks root and checks all relevant files concurrently.
// onFile is called once per file, never concurrently, in no particular order.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(FileResult)) error {
	files, err := c.collect(root)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := c.checkFile(ctx, root, rel)

			mu.Lock()
			defer mu.Unlock()
			onFile(result)
			return nil
		})
	}

	return g.Wait()
}

func (c *Crawler) collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if p != root {
				for _, ign := range c.ignored {
					if d.Name() == ign {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		if !c.extractor.Handles(p) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if c.only != nil && !c.only[rel] {
			return nil
		}
		if c.excluded(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func (c *Crawler) excluded(rel string) bool {
	for _, pattern := range c.exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (c *Crawler) checkFile(ctx context.Context, root, rel string) FileResult {
	result := FileResult{Path: rel}

	sourceCode, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		result.Err = fmt.Errorf("failed to read file %s: %w", rel, err)
		return result
	}

	tree, err := c.extractor.ExtractFromSource(ctx, rel, sourceCode)
	if err != nil {
		result.Err = err
		return result
	}

	result.Violations = c.checker.Check(tree)
	return result
}
