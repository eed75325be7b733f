package existence

import "github.com/shaoshing/jscs-jsdoc/internal/syntax"

// FunctionName returns the name node is bound to, found on the nearest
// enclosing declarator or object property. The first such binding ends the
// search even when it carries no identifier (destructuring pattern, literal key).
func FunctionName(node *syntax.Node) (name string, ok bool) {
	node.Ancestors(func(p *syntax.Node) bool {
		switch p.Kind {
		case syntax.KindVariableDeclarator:
			name, ok = p.ID.IdentifierName()
			return false
		case syntax.KindProperty:
			name, ok = p.Key.IdentifierName()
			return false
		}
		return true
	})
	return name, ok
}
