package syntax

// Tree is a parsed source file.
type Tree struct {
	Path string
	Root *Node
}

// Walk visits root and its descendants in depth-first pre-order. Returning
// false from fn skips the children of the visited node.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, fn)
	}
}

// Functions returns every function node of the tree in pre-order.
func (t *Tree) Functions() []*Node {
	var fns []*Node
	Walk(t.Root, func(n *Node) bool {
		if n.Kind.IsFunction() {
			fns = append(fns, n)
		}
		return true
	})
	return fns
}
