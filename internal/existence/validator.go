// Package existence decides whether a function node must carry a
// doc-comment and reports the ones that are missing it.
package existence

import "github.com/shaoshing/jscs-jsdoc/internal/syntax"

const (
	RuleName        = "enforceExistence"
	MessageRequired = "jsdoc definition required"
)

// ReportFunc receives a violation found by the validator.
type ReportFunc func(message string, pos syntax.Position)

// Logger receives trace output when Options.Verbose is set. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Validator checks function nodes for a required doc-comment.
// It holds no per-call state and may be shared between goroutines.
type Validator struct {
	opts   Options
	logger Logger
}

// NewValidator creates a validator. A nil logger discards trace output.
func NewValidator(opts Options, logger Logger) *Validator {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Validator{opts: opts, logger: logger}
}

// Validate reports node through report when it needs documentation and
// neither it nor an enclosing scope provides or waives it. report is called
// at most once.
func (v *Validator) Validate(node *syntax.Node, report ReportFunc) {
	reportExports := v.opts.EnforceExistence != ModeExceptExports

	parent := node.Parent()
	needCheck := node.ID != nil || bindsFunction(parent)

	if !reportExports && needCheck && isKind(parent, syntax.KindAssignmentExpression) && isModuleExports(parent.Left) {
		needCheck = false
	}

	if node.JSDoc || !needCheck {
		return
	}

	name, ok := FunctionName(node)
	if ok && v.exempt(node, name) {
		return
	}

	report(MessageRequired, node.Loc.Start)
}

// exempt reports whether the named function, or a scope enclosing it, waives
// the requirement. The nearest documented or excluded ancestor decides.
func (v *Validator) exempt(node *syntax.Node, name string) bool {
	if v.opts.excluded(name) {
		v.trace("jsdoc: excluded", "name", name)
		return true
	}

	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.JSDoc {
			parentName, _ := FunctionName(p)
			v.trace("jsdoc: parent exempts", "reason", "has jsdoc", "parent", parentName, "name", name)
			return true
		}
		if parentName, ok := FunctionName(p); ok && v.opts.excluded(parentName) {
			v.trace("jsdoc: parent exempts", "reason", "is excluded", "parent", parentName, "name", name)
			return true
		}
	}
	return false
}

func (v *Validator) trace(msg string, args ...any) {
	if v.opts.Verbose {
		v.logger.Debug(msg, args...)
	}
}

// bindsFunction reports whether parent binds its function child to a name:
// a declarator, an object property or a plain "=" assignment.
func bindsFunction(parent *syntax.Node) bool {
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case syntax.KindVariableDeclarator, syntax.KindProperty:
		return true
	case syntax.KindAssignmentExpression:
		return parent.Operator == "="
	case syntax.KindOther, syntax.KindProgram, syntax.KindFunctionDeclaration,
		syntax.KindFunctionExpression, syntax.KindMemberExpression, syntax.KindIdentifier:
		return false
	default:
		return false
	}
}

// isModuleExports matches exactly `module.exports`. Deeper chains such as
// module.exports.foo do not match.
func isModuleExports(left *syntax.Node) bool {
	if left == nil {
		return false
	}
	object, _ := left.Object.IdentifierName()
	property, _ := left.Property.IdentifierName()
	return object == "module" && property == "exports"
}

func isKind(n *syntax.Node, k syntax.Kind) bool {
	return n != nil && n.Kind == k
}
