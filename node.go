package dispatch

// Node is one position in the command tree. The published tree is immutable:
// mutation clones the affected path and atomically swaps the root, so a Node
// held by a reader (or an in-flight walk) never changes underneath it.
type Node[C any] struct {
	component *Component[C]
	children  []*Node[C]
	owners    []*Command[C]
	flags     []*Component[C]
	perms     []string
}

// Component returns the node's component, nil for the root.
func (n *Node[C]) Component() *Component[C] { return n.component }

// Name returns the component name, empty for the root.
func (n *Node[C]) Name() string {
	if n.component == nil {
		return ""
	}
	return n.component.name
}

// Children returns the child nodes in registration order.
func (n *Node[C]) Children() []*Node[C] {
	return append([]*Node[C](nil), n.children...)
}

// IsExecutable reports whether at least one registered command terminates
// here.
func (n *Node[C]) IsExecutable() bool {
	return len(n.owners) > 0
}

// Commands returns the commands terminating at this node.
func (n *Node[C]) Commands() []*Command[C] {
	return append([]*Command[C](nil), n.owners...)
}

// Flags returns the flags visible at this node: the union of the flags of
// every command whose path passes through it.
func (n *Node[C]) Flags() []*Component[C] {
	return append([]*Component[C](nil), n.flags...)
}

// Walk visits the subtree pre-order. Returning false from visit prunes the
// node's children.
func (n *Node[C]) Walk(visit func(*Node[C]) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// effectiveCommand picks the command executed when the node resolves: the
// first owner with a handler, else the first owner.
func (n *Node[C]) effectiveCommand() *Command[C] {
	for _, cmd := range n.owners {
		if cmd.handler != nil {
			return cmd
		}
	}
	if len(n.owners) > 0 {
		return n.owners[0]
	}
	return nil
}

// allowedFor reports whether the sender may enter this node: at least one
// owning command along this path must grant access. Commands without a
// permission key always grant.
func (n *Node[C]) allowedFor(sender C, check PermissionChecker[C]) bool {
	if len(n.perms) == 0 || check == nil {
		return true
	}
	for _, key := range n.perms {
		if key == "" {
			return true
		}
		if check(sender, key) {
			return true
		}
	}
	return false
}

func (n *Node[C]) findFlag(token string) *Component[C] {
	for _, f := range n.flags {
		if f.matchesFlag(token) {
			return f
		}
	}
	return nil
}

// shallowClone copies the node with duplicated slices; child pointers are
// shared with the original. Path-copying mutation clones exactly the nodes
// it touches.
func (n *Node[C]) shallowClone() *Node[C] {
	dup := &Node[C]{component: n.component}
	if n.children != nil {
		dup.children = append([]*Node[C](nil), n.children...)
	}
	if n.owners != nil {
		dup.owners = append([]*Command[C](nil), n.owners...)
	}
	if n.flags != nil {
		dup.flags = append([]*Component[C](nil), n.flags...)
	}
	if n.perms != nil {
		dup.perms = append([]string(nil), n.perms...)
	}
	return dup
}
