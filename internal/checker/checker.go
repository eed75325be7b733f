package checker

import (
	"github.com/shaoshing/jscs-jsdoc/internal/existence"
	"github.com/shaoshing/jscs-jsdoc/internal/syntax"
)

// Violation is a single missing doc-comment.
type Violation struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Function string `json:"function,omitempty"`
}

// Checker runs the existence rule over whole trees.
type Checker struct {
	validator *existence.Validator
}

// New creates a checker. logger may be nil.
func New(opts existence.Options, logger existence.Logger) *Checker {
	return &Checker{validator: existence.NewValidator(opts, logger)}
}

// Check validates every function of the tree, in source order.
func (c *Checker) Check(tree *syntax.Tree) []Violation {
	var out []Violation
	for _, fn := range tree.Functions() {
		c.validator.Validate(fn, func(message string, pos syntax.Position) {
			name, ok := fn.ID.IdentifierName()
			if !ok {
				name, _ = existence.FunctionName(fn)
			}
			out = append(out, Violation{
				Rule:     existence.RuleName,
				Message:  message,
				File:     tree.Path,
				Line:     pos.Line,
				Column:   pos.Column,
				Function: name,
			})
		})
	}
	return out
}
