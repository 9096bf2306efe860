package dispatch

import (
	"strings"
	"sync"
	"sync/atomic"
)

// snapshot is one immutable published state of the tree: the node graph plus
// the flat command list in registration order.
type snapshot[C any] struct {
	root     *Node[C]
	commands []*Command[C]
}

// tree owns tree mutation. Readers load the current snapshot and walk it
// without locking; Register and DeleteRoot serialize on mu, build a new
// snapshot by path-copying, and publish it atomically. A failed registration
// publishes nothing, leaving the tree exactly as it was.
type tree[C any] struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot[C]]
}

func newTree[C any]() *tree[C] {
	t := &tree[C]{}
	t.snap.Store(&snapshot[C]{root: &Node[C]{}})
	return t
}

func (t *tree[C]) load() *snapshot[C] {
	return t.snap.Load()
}

// insert adds cmd to the tree, merging with existing nodes where component
// identity allows and rejecting structural conflicts.
func (t *tree[C]) insert(cmd *Command[C]) *Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.snap.Load()
	newRoot := old.root.shallowClone()

	cur := newRoot
	var path []string
	for _, comp := range cmd.components {
		path = append(path, comp.name)

		idx, mergeErr := findMergeChild(cur, comp, path)
		if mergeErr != nil {
			return mergeErr
		}

		var next *Node[C]
		if idx >= 0 {
			next = cur.children[idx].shallowClone()
			if comp.kind == KindLiteral {
				next.component = mergeLiteral(next.component, comp)
			}
			cur.children[idx] = next
		} else {
			next = &Node[C]{component: comp.clone()}
			cur.children = append(cur.children, next)
		}

		next.flags = mergeFlags(next.flags, cmd.flags)
		next.perms = mergePerm(next.perms, cmd.permission)
		cur = next
	}

	if cmd.handler != nil {
		for _, owner := range cur.owners {
			if owner.handler != nil {
				return duplicateCommand(path)
			}
		}
	}
	cur.owners = append(cur.owners, cmd)

	t.snap.Store(&snapshot[C]{
		root:     newRoot,
		commands: append(append([]*Command[C](nil), old.commands...), cmd),
	})
	return nil
}

// deleteRoot removes the first-level literal with the given primary name and
// its whole subtree. It returns the commands that terminated inside the
// subtree, in registration order.
func (t *tree[C]) deleteRoot(name string) ([]*Command[C], *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.snap.Load()
	idx := -1
	for i, child := range old.root.children {
		if strings.EqualFold(child.component.name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, noSuchCommand(name, nil)
	}

	newRoot := old.root.shallowClone()
	newRoot.children = append(newRoot.children[:idx:idx], newRoot.children[idx+1:]...)

	removedRoot := old.root.children[idx].component.name
	var kept, removed []*Command[C]
	for _, cmd := range old.commands {
		if strings.EqualFold(cmd.RootName(), removedRoot) {
			removed = append(removed, cmd)
		} else {
			kept = append(kept, cmd)
		}
	}

	t.snap.Store(&snapshot[C]{root: newRoot, commands: kept})
	return removed, nil
}

// findMergeChild locates an existing child the component merges into.
// Returns -1 when a fresh child should be created, or an ambiguity error
// when the component can neither merge nor coexist with a sibling.
func findMergeChild[C any](parent *Node[C], comp *Component[C], path []string) (int, *Error) {
	switch comp.kind {
	case KindLiteral:
		for i, child := range parent.children {
			existing := child.component
			if existing.kind != KindLiteral {
				continue
			}
			if strings.EqualFold(existing.name, comp.name) {
				return i, nil
			}
			if literalNamesOverlap(existing, comp) {
				return 0, ambiguousNode(comp.name, "literal '"+existing.name+"' aliases", path[:len(path)-1])
			}
		}
		return -1, nil
	case KindArgument:
		for i, child := range parent.children {
			existing := child.component
			if existing.kind != KindArgument {
				continue
			}
			sameName := existing.name == comp.name
			sameContract := existing.contract == comp.contract
			if sameName && sameContract {
				return i, nil
			}
			if sameName || sameContract {
				return 0, ambiguousNode(comp.name, existing.contract, path[:len(path)-1])
			}
		}
		return -1, nil
	default:
		return 0, invalidCommand("flag component in positional chain")
	}
}

// literalNamesOverlap reports whether two literals with different primary
// names share any spelling. Overlapping spellings would make dispatch depend
// on registration order, so registration rejects them.
func literalNamesOverlap[C any](a, b *Component[C]) bool {
	names := func(c *Component[C]) []string {
		return append([]string{c.name}, c.aliases...)
	}
	for _, an := range names(a) {
		for _, bn := range names(b) {
			if strings.EqualFold(an, bn) {
				return true
			}
		}
	}
	return false
}

// mergeLiteral unions alias sets when the same literal is registered twice.
func mergeLiteral[C any](existing, incoming *Component[C]) *Component[C] {
	merged := existing.clone()
	for _, alias := range incoming.aliases {
		found := false
		for _, have := range merged.aliases {
			if strings.EqualFold(have, alias) {
				found = true
				break
			}
		}
		if !found {
			merged.aliases = append(merged.aliases, alias)
		}
	}
	if merged.description == "" {
		merged.description = incoming.description
	}
	return merged
}

// mergeFlags unions flag sets by primary name, keeping the first
// registration of each name.
func mergeFlags[C any](existing []*Component[C], incoming []*Component[C]) []*Component[C] {
	merged := existing
	for _, f := range incoming {
		found := false
		for _, have := range merged {
			if have.name == f.name {
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, f.clone())
		}
	}
	return merged
}

func mergePerm(existing []string, key string) []string {
	for _, have := range existing {
		if have == key {
			return existing
		}
	}
	return append(existing, key)
}
