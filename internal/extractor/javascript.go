package extractor

import (
	"strings"

	"github.com/shaoshing/jscs-jsdoc/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// tree-sitter-javascript node types.
const (
	jsNodeProgram              = "program"
	jsNodeComment              = "comment"
	jsNodeFunctionDeclaration  = "function_declaration"
	jsNodeGeneratorDeclaration = "generator_function_declaration"
	jsNodeFunction             = "function"
	jsNodeFunctionExpression   = "function_expression"
	jsNodeGeneratorFunction    = "generator_function"
	jsNodeVariableDeclarator   = "variable_declarator"
	jsNodeVariableDeclaration  = "variable_declaration"
	jsNodeLexicalDeclaration   = "lexical_declaration"
	jsNodePair                 = "pair"
	jsNodeMethodDefinition     = "method_definition"
	jsNodeObject               = "object"
	jsNodeAssignment           = "assignment_expression"
	jsNodeAugmentedAssignment  = "augmented_assignment_expression"
	jsNodeMemberExpression     = "member_expression"
	jsNodeParenthesized        = "parenthesized_expression"
	jsNodeExpressionStatement  = "expression_statement"
	jsNodeExportStatement      = "export_statement"
	jsNodeIdentifier           = "identifier"
	jsNodePropertyIdentifier   = "property_identifier"
	jsNodeShorthandProperty    = "shorthand_property_identifier"
)

// JavaScriptExtractor implements LanguageExtractor for JavaScript. The trees
// it builds follow ESTree shapes: parentheses are dropped, object methods
// become properties holding a function expression.
type JavaScriptExtractor struct{}

func (j *JavaScriptExtractor) GetLanguage() *sitter.Language {
	return javascript.GetLanguage()
}

func (j *JavaScriptExtractor) Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx"}
}

func (j *JavaScriptExtractor) Convert(root *sitter.Node, sourceCode []byte) *syntax.Node {
	c := &jsConverter{src: sourceCode}
	return c.convert(root)
}

type jsConverter struct {
	src []byte
}

func (c *jsConverter) convert(n *sitter.Node) *syntax.Node {
	switch n.Type() {
	case jsNodeParenthesized:
		if inner := firstNamedChild(n); inner != nil {
			return c.convert(inner)
		}
	case jsNodeMethodDefinition:
		return c.convertMethod(n)
	}

	kind := jsKind(n.Type())
	if kind == syntax.KindIdentifier {
		return syntax.NewIdentifier(n.Content(c.src), location(n))
	}

	node := syntax.NewNode(kind, location(n))
	node.Raw = n.Type()

	switch node.Kind {
	case syntax.KindAssignmentExpression:
		node.Operator = assignmentOperator(n, c.src)
	case syntax.KindFunctionDeclaration, syntax.KindFunctionExpression:
		node.JSDoc = hasJSDoc(docAnchor(n), c.src)
	}

	fields := map[string]*sitter.Node{}
	for _, field := range jsFields(node.Kind) {
		if f := unwrapParens(n.ChildByFieldName(field)); f != nil {
			fields[field] = f
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == jsNodeComment {
			continue
		}
		converted := node.AppendChild(c.convert(child))
		for field, fn := range fields {
			if sameNode(unwrapParens(child), fn) {
				setField(node, field, converted)
			}
		}
	}
	return node
}

// convertMethod expands `name() {}` into a property (inside object literals)
// or an opaque class member, holding a function expression that carries the
// parameters and body.
func (c *jsConverter) convertMethod(n *sitter.Node) *syntax.Node {
	kind := syntax.KindOther
	if p := n.Parent(); p != nil && p.Type() == jsNodeObject {
		kind = syntax.KindProperty
	}
	holder := syntax.NewNode(kind, location(n))
	holder.Raw = n.Type()

	nameNode := n.ChildByFieldName("name")
	fn := &syntax.Node{
		Kind:  syntax.KindFunctionExpression,
		Raw:   jsNodeFunctionExpression,
		Loc:   location(n),
		JSDoc: hasJSDoc(n, c.src),
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == jsNodeComment {
			continue
		}
		if nameNode != nil && sameNode(child, nameNode) {
			holder.Key = holder.AppendChild(c.convert(child))
			continue
		}
		fn.AppendChild(c.convert(child))
	}
	holder.AppendChild(fn)
	return holder
}

func jsKind(nodeType string) syntax.Kind {
	switch nodeType {
	case jsNodeProgram:
		return syntax.KindProgram
	case jsNodeFunctionDeclaration, jsNodeGeneratorDeclaration:
		return syntax.KindFunctionDeclaration
	case jsNodeFunction, jsNodeFunctionExpression, jsNodeGeneratorFunction:
		return syntax.KindFunctionExpression
	case jsNodeVariableDeclarator:
		return syntax.KindVariableDeclarator
	case jsNodePair:
		return syntax.KindProperty
	case jsNodeAssignment, jsNodeAugmentedAssignment:
		return syntax.KindAssignmentExpression
	case jsNodeMemberExpression:
		return syntax.KindMemberExpression
	case jsNodeIdentifier, jsNodePropertyIdentifier, jsNodeShorthandProperty:
		return syntax.KindIdentifier
	default:
		return syntax.KindOther
	}
}

// jsFields lists the grammar fields that populate the node's named links.
func jsFields(kind syntax.Kind) []string {
	switch kind {
	case syntax.KindFunctionDeclaration, syntax.KindFunctionExpression, syntax.KindVariableDeclarator:
		return []string{"name"}
	case syntax.KindProperty:
		return []string{"key"}
	case syntax.KindAssignmentExpression:
		return []string{"left"}
	case syntax.KindMemberExpression:
		return []string{"object", "property"}
	case syntax.KindOther, syntax.KindProgram, syntax.KindIdentifier:
		return nil
	default:
		return nil
	}
}

func setField(node *syntax.Node, field string, value *syntax.Node) {
	switch field {
	case "name":
		// A destructuring pattern binds no single identifier.
		if value.Kind == syntax.KindIdentifier {
			node.ID = value
		}
	case "key":
		node.Key = value
	case "left":
		node.Left = value
	case "object":
		node.Object = value
	case "property":
		node.Property = value
	}
}

func assignmentOperator(n *sitter.Node, src []byte) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Content(src)
	}
	if n.Type() == jsNodeAssignment {
		return "="
	}
	// augmented_assignment_expression without an operator field in older grammars.
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
	if left != nil && right != nil && right.StartByte() > left.EndByte() {
		return strings.TrimSpace(string(src[left.EndByte():right.StartByte()]))
	}
	return ""
}

// docAnchor returns the statement a doc-comment for fn precedes:
//
//	/** doc */ var foo = function () {};
//	/** doc */ foo: function () {},
//	/** doc */ module.exports = function () {};
//	/** doc */ export function foo() {}
func docAnchor(fn *sitter.Node) *sitter.Node {
	anchor := fn
	p := fn.Parent()
	for p != nil && p.Type() == jsNodeParenthesized {
		anchor, p = p, p.Parent()
	}
	if p == nil {
		return anchor
	}

	switch p.Type() {
	case jsNodeVariableDeclarator:
		anchor = p
		if decl := p.Parent(); decl != nil && isDeclaration(decl.Type()) && sameNode(firstNamedChild(decl), p) {
			anchor = decl
		}
	case jsNodePair:
		anchor = p
	case jsNodeAssignment:
		for p.Parent() != nil && p.Parent().Type() == jsNodeAssignment {
			p = p.Parent()
		}
		anchor = p
		if stmt := p.Parent(); stmt != nil && stmt.Type() == jsNodeExpressionStatement {
			anchor = stmt
		}
	}

	if exp := anchor.Parent(); exp != nil && exp.Type() == jsNodeExportStatement {
		anchor = exp
	}
	return anchor
}

// hasJSDoc reports whether the closest named node before anchor is a
// `/** ... */` block comment.
func hasJSDoc(anchor *sitter.Node, src []byte) bool {
	prev := anchor.PrevSibling()
	for prev != nil && !prev.IsNamed() {
		prev = prev.PrevSibling()
	}
	if prev == nil || prev.Type() != jsNodeComment {
		return false
	}
	return isJSDocComment(prev.Content(src))
}

func isJSDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") &&
		!strings.HasPrefix(text, "/***") &&
		strings.HasSuffix(text, "*/") &&
		len(text) > len("/**/")
}

func isDeclaration(nodeType string) bool {
	return nodeType == jsNodeVariableDeclaration || nodeType == jsNodeLexicalDeclaration
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() != jsNodeComment {
			return child
		}
	}
	return nil
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == jsNodeParenthesized {
		inner := firstNamedChild(n)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func location(n *sitter.Node) syntax.Location {
	return syntax.Location{Start: position(n.StartPoint()), End: position(n.EndPoint())}
}
