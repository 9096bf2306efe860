package dispatch

import "github.com/google/uuid"

// CommandContext carries the state of one dispatch or suggestion pass: the
// sender, every parsed argument value, the flags seen so far, and the node
// path walked. Handlers and parsers share the same context instance.
type CommandContext[C any] struct {
	sender   C
	id       uuid.UUID
	rawInput []string
	values   map[string]any
	flags    *FlagSet
	path     []string
}

func newCommandContext[C any](sender C, tokens []string) *CommandContext[C] {
	return &CommandContext[C]{
		sender:   sender,
		id:       uuid.New(),
		rawInput: tokens,
		values:   make(map[string]any),
		flags:    newFlagSet(),
	}
}

// Sender returns the sender this dispatch runs on behalf of.
func (c *CommandContext[C]) Sender() C { return c.sender }

// InvocationID returns the unique id assigned to this dispatch.
func (c *CommandContext[C]) InvocationID() uuid.UUID { return c.id }

// RawInput returns the tokens exactly as handed to Dispatch or Suggest.
func (c *CommandContext[C]) RawInput() []string { return c.rawInput }

// Flags returns the flags seen during the walk.
func (c *CommandContext[C]) Flags() *FlagSet { return c.flags }

// Path returns the component names walked so far, root child first.
func (c *CommandContext[C]) Path() []string { return append([]string(nil), c.path...) }

// Raw returns the parsed value stored under name, untyped.
func (c *CommandContext[C]) Raw(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Contains reports whether an argument value is present. Optional arguments
// without a default are absent when input ran out before them.
func (c *CommandContext[C]) Contains(name string) bool {
	_, ok := c.values[name]
	return ok
}

func (c *CommandContext[C]) set(name string, v any) {
	c.values[name] = v
}

func (c *CommandContext[C]) pushPath(name string) {
	c.path = append(c.path, name)
}

// Value returns the argument value stored under name, typed. The second
// return is false when the value is absent or of a different type.
func Value[T any, C any](c *CommandContext[C], name string) (T, bool) {
	var zero T
	raw, ok := c.values[name]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// ValueOr returns the argument value stored under name, or fallback when it
// is absent or of a different type.
func ValueOr[T any, C any](c *CommandContext[C], name string, fallback T) T {
	if v, ok := Value[T](c, name); ok {
		return v
	}
	return fallback
}
