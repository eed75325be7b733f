package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/shaoshing/jscs-jsdoc/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

// MaxFileSize is the largest source file the extractor parses.
const MaxFileSize = 10 * 1024 * 1024

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidContent = errors.New("content is not valid UTF-8")
	ErrSyntax         = errors.New("syntax error")
)

// Extractor turns source files into syntax trees using a language-specific front end.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "javascript", "js":
		langExt = &JavaScriptExtractor{}
		lang = "javascript"
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// Language returns the canonical language name.
func (e *Extractor) Language() string {
	return e.langName
}

// Handles reports whether path has one of the language's file extensions.
func (e *Extractor) Handles(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range e.langExtractor.Extensions() {
		if ext == candidate {
			return true
		}
	}
	return false
}

// ExtractFromFile reads and parses a single source file.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*syntax.Tree, error) {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.ExtractFromSource(ctx, path, sourceCode)
}

// ExtractFromSource parses sourceCode and returns its syntax tree with
// doc-comments already attached.
func (e *Extractor) ExtractFromSource(ctx context.Context, path string, sourceCode []byte) (*syntax.Tree, error) {
	if len(sourceCode) > MaxFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}
	if !utf8.Valid(sourceCode) {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidContent)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.langExtractor.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		pos := firstError(root)
		return nil, fmt.Errorf("%s:%s: %w", path, pos, ErrSyntax)
	}

	return &syntax.Tree{
		Path: path,
		Root: e.langExtractor.Convert(root, sourceCode),
	}, nil
}

// firstError locates the earliest ERROR or MISSING node below n.
func firstError(n *sitter.Node) syntax.Position {
	if n.IsError() || n.IsMissing() {
		return position(n.StartPoint())
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstError(child)
		}
	}
	return position(n.StartPoint())
}

func position(p sitter.Point) syntax.Position {
	return syntax.Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}
