// Package dispatch is an embeddable command dispatcher: a registry of
// hierarchical commands (literals, typed arguments, flags) dispatched
// against tokenized input on behalf of an application-defined sender type.
//
// The package owns parsing, completion and execution scheduling. It draws
// no line output, persists nothing and never inspects the sender beyond
// the permission checker the embedder installs. Registration is rare and
// serialized; dispatch and suggestion walks run concurrently against
// immutable tree snapshots and never block each other.
package dispatch

import "context"

// RegistrationHook observes command lifecycle. Embedders use it to sync
// external registries (a TUI palette, a shell completion cache) with the
// tree. Calls happen on the registering goroutine, after the mutation is
// published.
type RegistrationHook[C any] interface {
	CommandRegistered(cmd *Command[C])
	CommandUnregistered(cmd *Command[C])
}

// Option configures a Manager.
type Option[C any] func(*Manager[C])

// WithCoordinator sets the execution coordinator. Default: Immediate.
func WithCoordinator[C any](coord ExecutionCoordinator[C]) Option[C] {
	return func(m *Manager[C]) { m.coord = coord }
}

// WithPermissionChecker installs the permission gate. Without one, every
// permission key is granted. With one, dispatch is fail-closed: a key the
// checker does not recognize must be denied by returning false. The checker
// is called from concurrent walks and must be safe for concurrent use.
func WithPermissionChecker[C any](check PermissionChecker[C]) Option[C] {
	return func(m *Manager[C]) { m.check = check }
}

// WithRegistrationHook installs a lifecycle observer.
func WithRegistrationHook[C any](hook RegistrationHook[C]) Option[C] {
	return func(m *Manager[C]) { m.hook = hook }
}

// Manager is the dispatcher facade: registration, deletion, introspection,
// dispatch and suggestions over one command tree.
type Manager[C any] struct {
	tree  *tree[C]
	coord ExecutionCoordinator[C]
	check PermissionChecker[C]
	hook  RegistrationHook[C]
}

// NewManager creates an empty dispatcher.
func NewManager[C any](opts ...Option[C]) *Manager[C] {
	m := &Manager[C]{tree: newTree[C](), coord: Immediate[C]()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register validates cmd and inserts it into the tree. On any error the
// tree is untouched. Errors: ErrInvalidCommand (structural),
// ErrAmbiguousNode (sibling conflict), ErrDuplicateCommand (second handler
// on an identical path).
func (m *Manager[C]) Register(cmd *Command[C]) error {
	if cmd == nil {
		return invalidCommand("nil command")
	}
	if err := cmd.validate(); err != nil {
		return err
	}
	if err := m.tree.insert(cmd); err != nil {
		return err
	}
	if m.hook != nil {
		m.hook.CommandRegistered(cmd)
	}
	return nil
}

// DeleteRoot removes the first-level literal with the given primary name
// and its entire subtree, atomically with respect to concurrent and
// subsequent dispatches. Walks already in flight finish on the snapshot
// they started with. Returns ErrNoSuchCommand when no root matches.
// Aliases do not delete; only primary names do.
func (m *Manager[C]) DeleteRoot(name string) error {
	removed, err := m.tree.deleteRoot(name)
	if err != nil {
		return err
	}
	if m.hook != nil {
		for _, cmd := range removed {
			m.hook.CommandUnregistered(cmd)
		}
	}
	return nil
}

// RootNodes returns the first-level nodes of the current tree snapshot, in
// registration order. The returned nodes are immutable.
func (m *Manager[C]) RootNodes() []*Node[C] {
	return m.tree.load().root.Children()
}

// KnownCommands returns every registered command in registration order.
func (m *Manager[C]) KnownCommands() []*Command[C] {
	snap := m.tree.load()
	return append([]*Command[C](nil), snap.commands...)
}

// Dispatch parses tokens against the current snapshot on behalf of sender
// and schedules the resolved command on the coordinator. The returned
// deferred resolves with the execution result, or with the classified
// dispatch error; parse and permission failures resolve the deferred
// rather than surfacing synchronously, so callers observe one failure
// shape regardless of coordinator.
func (m *Manager[C]) Dispatch(ctx context.Context, sender C, tokens []string) *Deferred[*ExecutionResult[C]] {
	snap := m.tree.load()
	w := &walker[C]{cctx: newCommandContext(sender, tokens), in: NewInput(tokens), check: m.check}
	exec, derr := w.resolve(ctx, snap.root)
	if derr != nil {
		return resolvedDeferred[*ExecutionResult[C]](nil, derr)
	}
	return m.coord.Schedule(ctx, exec)
}

// Suggest computes completion candidates for the final token of tokens,
// asynchronously. The deferred always resolves successfully; input that
// cannot reach a node resolves to an empty list.
func (m *Manager[C]) Suggest(ctx context.Context, sender C, tokens []string) *Deferred[[]Suggestion] {
	d := newDeferred[[]Suggestion]()
	go func() {
		d.resolve(m.computeSuggestions(ctx, sender, tokens), nil)
	}()
	return d
}

// SuggestNow is the synchronous form of Suggest.
func (m *Manager[C]) SuggestNow(ctx context.Context, sender C, tokens []string) []Suggestion {
	return m.computeSuggestions(ctx, sender, tokens)
}
