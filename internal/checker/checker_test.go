package checker

import (
	"testing"

	"github.com/shaoshing/jscs-jsdoc/internal/existence"
	"github.com/shaoshing/jscs-jsdoc/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(line, col int) syntax.Location {
	return syntax.Location{Start: syntax.Position{Line: line, Column: col}}
}

// buildTree mirrors:
//
//	/** documented */
//	var documented = function () { var inner = function () {}; };
//	var missing = function () {};
//	function named() {}
//	(function () {})();
func buildTree() *syntax.Tree {
	root := syntax.NewNode(syntax.KindProgram, loc(1, 0))

	d1 := root.AppendChild(syntax.NewNode(syntax.KindVariableDeclarator, loc(2, 4)))
	d1.ID = d1.AppendChild(syntax.NewIdentifier("documented", loc(2, 4)))
	documented := d1.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc(2, 17)))
	documented.JSDoc = true
	body := documented.AppendChild(&syntax.Node{Kind: syntax.KindOther, Raw: "statement_block"})
	d2 := body.AppendChild(syntax.NewNode(syntax.KindVariableDeclarator, loc(2, 34)))
	d2.ID = d2.AppendChild(syntax.NewIdentifier("inner", loc(2, 34)))
	d2.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc(2, 42)))

	d3 := root.AppendChild(syntax.NewNode(syntax.KindVariableDeclarator, loc(3, 4)))
	d3.ID = d3.AppendChild(syntax.NewIdentifier("missing", loc(3, 4)))
	d3.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc(3, 14)))

	named := root.AppendChild(syntax.NewNode(syntax.KindFunctionDeclaration, loc(4, 0)))
	named.ID = named.AppendChild(syntax.NewIdentifier("named", loc(4, 9)))

	iife := root.AppendChild(&syntax.Node{Kind: syntax.KindOther, Raw: "call_expression"})
	iife.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc(5, 1)))

	return &syntax.Tree{Path: "lib/sample.js", Root: root}
}

func TestChecker_Check(t *testing.T) {
	c := New(existence.Options{}, nil)
	violations := c.Check(buildTree())

	require.Len(t, violations, 2)
	assert.Equal(t, Violation{
		Rule:     existence.RuleName,
		Message:  existence.MessageRequired,
		File:     "lib/sample.js",
		Line:     3,
		Column:   14,
		Function: "missing",
	}, violations[0])
	assert.Equal(t, "named", violations[1].Function)
	assert.Equal(t, 4, violations[1].Line)
}

func TestChecker_CheckWithExclusions(t *testing.T) {
	c := New(existence.Options{Except: existence.NewExceptSet("missing", "named")}, nil)
	violations := c.Check(buildTree())

	// "named" is a declaration without a binding, so its own id cannot exclude it.
	require.Len(t, violations, 1)
	assert.Equal(t, "named", violations[0].Function)
}

func TestChecker_EmptyTree(t *testing.T) {
	c := New(existence.Options{}, nil)
	assert.Empty(t, c.Check(&syntax.Tree{Path: "empty.js"}))
}
