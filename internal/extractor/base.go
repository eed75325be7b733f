package extractor

import (
	"github.com/shaoshing/jscs-jsdoc/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

// LanguageExtractor defines the interface that each language front end must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	Extensions() []string
	// Convert builds the syntax tree for a parsed file and marks documented
	// function nodes.
	Convert(root *sitter.Node, sourceCode []byte) *syntax.Node
}
