package syntax

import "fmt"

// Kind identifies the syntactic category of a Node.
type Kind int

const (
	KindOther Kind = iota
	KindProgram
	KindFunctionDeclaration
	KindFunctionExpression
	KindVariableDeclarator
	KindProperty
	KindAssignmentExpression
	KindMemberExpression
	KindIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindProgram:
		return "Program"
	case KindFunctionDeclaration:
		return "FunctionDeclaration"
	case KindFunctionExpression:
		return "FunctionExpression"
	case KindVariableDeclarator:
		return "VariableDeclarator"
	case KindProperty:
		return "Property"
	case KindAssignmentExpression:
		return "AssignmentExpression"
	case KindMemberExpression:
		return "MemberExpression"
	case KindIdentifier:
		return "Identifier"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsFunction reports whether nodes of this kind are checked for documentation.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression:
		return true
	case KindOther, KindProgram, KindVariableDeclarator, KindProperty,
		KindAssignmentExpression, KindMemberExpression, KindIdentifier:
		return false
	default:
		panic(fmt.Sprintf("syntax: unhandled kind %s", k))
	}
}

// Position is a source location. Line is 1-based, Column is 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location spans a node in the source file.
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is an element of a syntax tree.
//
// A node owns its Children. The parent link is a lookup-only back reference
// maintained by AppendChild.
type Node struct {
	Kind Kind
	// Raw is the grammar type the node was built from, kept for KindOther nodes
	// and diagnostics.
	Raw string
	Loc Location

	// Name is set on identifier nodes.
	Name string
	// JSDoc marks a documentation comment attached to the node.
	JSDoc bool

	// ID is the bound identifier of function and declarator nodes.
	ID *Node
	// Key is the key of property nodes.
	Key *Node
	// Operator and Left describe assignment nodes.
	Operator string
	Left     *Node
	// Object and Property describe member-expression nodes.
	Object   *Node
	Property *Node

	Children []*Node
	parent   *Node
}

// NewNode creates a detached node of the given kind.
func NewNode(kind Kind, loc Location) *Node {
	return &Node{Kind: kind, Loc: loc}
}

// NewIdentifier creates an identifier node.
func NewIdentifier(name string, loc Location) *Node {
	return &Node{Kind: KindIdentifier, Name: name, Loc: loc}
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// AppendChild attaches child to n and returns child.
func (n *Node) AppendChild(child *Node) *Node {
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// IdentifierName returns the name of an identifier node. Any other node,
// including nil, has no name.
func (n *Node) IdentifierName() (string, bool) {
	if n == nil || n.Kind != KindIdentifier {
		return "", false
	}
	return n.Name, true
}

// Ancestors calls fn for each ancestor of n, nearest first, until fn returns false.
func (n *Node) Ancestors(fn func(*Node) bool) {
	for p := n.Parent(); p != nil; p = p.parent {
		if !fn(p) {
			return
		}
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindOther && n.Raw != "" {
		return fmt.Sprintf("%s(%s)@%s", n.Kind, n.Raw, n.Loc.Start)
	}
	return fmt.Sprintf("%s@%s", n.Kind, n.Loc.Start)
}
