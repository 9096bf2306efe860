package dispatch

import (
	"context"
	"fmt"
)

// Handler executes a resolved command. ctx is the context passed to
// Dispatch; cctx carries the sender, parsed arguments and flags.
type Handler[C any] interface {
	Execute(ctx context.Context, cctx *CommandContext[C]) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C any] func(ctx context.Context, cctx *CommandContext[C]) error

// Execute implements Handler.
func (f HandlerFunc[C]) Execute(ctx context.Context, cctx *CommandContext[C]) error {
	return f(ctx, cctx)
}

// Command is an immutable chain of components plus execution metadata. A
// command with a nil handler is registrable and resolves as a no-op, which
// lets pure group prefixes ("config", "theme") exist as executable paths.
type Command[C any] struct {
	components  []*Component[C]
	flags       []*Component[C]
	permission  string
	description string
	handler     Handler[C]
}

// Components returns the positional chain: the leading literal and every
// literal or argument after it, in match order.
func (c *Command[C]) Components() []*Component[C] {
	return append([]*Component[C](nil), c.components...)
}

// Flags returns the command-scoped flags.
func (c *Command[C]) Flags() []*Component[C] {
	return append([]*Component[C](nil), c.flags...)
}

// Permission returns the permission key, empty when the command is
// unrestricted.
func (c *Command[C]) Permission() string { return c.permission }

// Description returns the display description.
func (c *Command[C]) Description() string { return c.description }

// Handler returns the handler, nil for no-op commands.
func (c *Command[C]) Handler() Handler[C] { return c.handler }

// RootName returns the primary name of the leading literal.
func (c *Command[C]) RootName() string {
	if len(c.components) == 0 {
		return ""
	}
	return c.components[0].name
}

// PathNames returns the component names of the positional chain.
func (c *Command[C]) PathNames() []string {
	names := make([]string, len(c.components))
	for i, comp := range c.components {
		names[i] = comp.name
	}
	return names
}

// validate enforces the structural rules checked at registration time.
func (c *Command[C]) validate() *Error {
	if len(c.components) == 0 {
		return invalidCommand("empty component chain")
	}
	if c.components[0].kind != KindLiteral {
		return invalidCommand("first component must be a literal")
	}
	seenOptional := false
	seenNames := make(map[string]bool)
	for i, comp := range c.components {
		switch comp.kind {
		case KindLiteral:
			if seenOptional {
				return invalidCommand(fmt.Sprintf("literal '%s' follows an optional argument", comp.name))
			}
		case KindArgument:
			if seenNames[comp.name] {
				return invalidCommand(fmt.Sprintf("duplicate argument name '%s'", comp.name))
			}
			seenNames[comp.name] = true
			if comp.required && seenOptional {
				return invalidCommand(fmt.Sprintf("required argument '%s' follows an optional argument", comp.name))
			}
			if !comp.required {
				seenOptional = true
			}
			if comp.consumesAll && i != len(c.components)-1 {
				return invalidCommand(fmt.Sprintf("greedy argument '%s' must be the last component", comp.name))
			}
		case KindFlag:
			return invalidCommand(fmt.Sprintf("flag '%s' attached as a positional component", comp.name))
		}
	}
	seenFlags := make(map[string]bool)
	for _, f := range c.flags {
		if f.kind != KindFlag {
			return invalidCommand(fmt.Sprintf("'%s' attached as a flag but is a %s", f.name, f.kind))
		}
		if seenFlags[f.name] {
			return invalidCommand(fmt.Sprintf("duplicate flag name '%s'", f.name))
		}
		seenFlags[f.name] = true
	}
	return nil
}

// Builder assembles a Command. The zero Builder is not usable; start with
// NewCommand.
type Builder[C any] struct {
	cmd Command[C]
}

// NewCommand starts a builder on a root literal.
func NewCommand[C any](root *Component[C]) *Builder[C] {
	b := &Builder[C]{}
	b.cmd.components = append(b.cmd.components, root)
	return b
}

// Literal appends a literal component.
func (b *Builder[C]) Literal(name string, aliases ...string) *Builder[C] {
	b.cmd.components = append(b.cmd.components, Literal[C](name, aliases...))
	return b
}

// Argument appends an argument component built with Required, Optional or
// OptionalDefault.
func (b *Builder[C]) Argument(c *Component[C]) *Builder[C] {
	b.cmd.components = append(b.cmd.components, c)
	return b
}

// Flag attaches a command-scoped flag. Flags are position-independent: they
// may appear anywhere in the input after the command's root literal.
func (b *Builder[C]) Flag(f *Component[C]) *Builder[C] {
	b.cmd.flags = append(b.cmd.flags, f)
	return b
}

// Permission sets the permission key checked lazily during the walk.
func (b *Builder[C]) Permission(key string) *Builder[C] {
	b.cmd.permission = key
	return b
}

// Description sets the display description.
func (b *Builder[C]) Description(d string) *Builder[C] {
	b.cmd.description = d
	return b
}

// Handler sets the handler.
func (b *Builder[C]) Handler(h Handler[C]) *Builder[C] {
	b.cmd.handler = h
	return b
}

// HandlerFunc sets the handler from a plain function.
func (b *Builder[C]) HandlerFunc(fn func(ctx context.Context, cctx *CommandContext[C]) error) *Builder[C] {
	b.cmd.handler = HandlerFunc[C](fn)
	return b
}

// Build returns the assembled command. Structural validation happens at
// registration, where the tree can also check ambiguity against existing
// siblings.
func (b *Builder[C]) Build() *Command[C] {
	cmd := b.cmd
	cmd.components = append([]*Component[C](nil), b.cmd.components...)
	cmd.flags = append([]*Component[C](nil), b.cmd.flags...)
	return &cmd
}
