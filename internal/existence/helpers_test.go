package existence

import "github.com/shaoshing/jscs-jsdoc/internal/syntax"

// Small tree builders shaped like the ESTree nodes the extractor produces.

func at(line, col int) syntax.Location {
	return syntax.Location{Start: syntax.Position{Line: line, Column: col}}
}

func program() *syntax.Node {
	return syntax.NewNode(syntax.KindProgram, at(1, 0))
}

func other(parent *syntax.Node, raw string) *syntax.Node {
	n := syntax.NewNode(syntax.KindOther, parent.Loc)
	n.Raw = raw
	return parent.AppendChild(n)
}

// declare appends `var name = function () {}` and returns the declarator and
// the function expression.
func declare(parent *syntax.Node, name string, loc syntax.Location) (*syntax.Node, *syntax.Node) {
	decl := parent.AppendChild(syntax.NewNode(syntax.KindVariableDeclarator, loc))
	if name != "" {
		decl.ID = decl.AppendChild(syntax.NewIdentifier(name, loc))
	} else {
		decl.AppendChild(&syntax.Node{Kind: syntax.KindOther, Raw: "object_pattern", Loc: loc})
	}
	fn := decl.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc))
	return decl, fn
}

// property appends `key: function () {}` to an object literal.
func property(object *syntax.Node, key string, loc syntax.Location) (*syntax.Node, *syntax.Node) {
	prop := object.AppendChild(syntax.NewNode(syntax.KindProperty, loc))
	prop.Key = prop.AppendChild(syntax.NewIdentifier(key, loc))
	fn := prop.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc))
	return prop, fn
}

// assign appends `object.property op function () {}`.
func assign(parent *syntax.Node, object, prop, op string, loc syntax.Location) (*syntax.Node, *syntax.Node) {
	a := parent.AppendChild(syntax.NewNode(syntax.KindAssignmentExpression, loc))
	a.Operator = op
	member := a.AppendChild(syntax.NewNode(syntax.KindMemberExpression, loc))
	member.Object = member.AppendChild(syntax.NewIdentifier(object, loc))
	member.Property = member.AppendChild(syntax.NewIdentifier(prop, loc))
	a.Left = member
	fn := a.AppendChild(syntax.NewNode(syntax.KindFunctionExpression, loc))
	return a, fn
}

// declareFunc appends `function name() {}`.
func declareFunc(parent *syntax.Node, name string, loc syntax.Location) *syntax.Node {
	fn := parent.AppendChild(syntax.NewNode(syntax.KindFunctionDeclaration, loc))
	fn.ID = fn.AppendChild(syntax.NewIdentifier(name, loc))
	return fn
}

type reported struct {
	message string
	pos     syntax.Position
}

type recorder struct {
	calls []reported
}

func (r *recorder) report(message string, pos syntax.Position) {
	r.calls = append(r.calls, reported{message: message, pos: pos})
}

type traceLine struct {
	msg  string
	args []any
}

type fakeLogger struct {
	lines []traceLine
}

func (l *fakeLogger) Debug(msg string, args ...any) {
	l.lines = append(l.lines, traceLine{msg: msg, args: args})
}

func validate(opts Options, node *syntax.Node) []reported {
	rec := &recorder{}
	NewValidator(opts, nil).Validate(node, rec.report)
	return rec.calls
}
