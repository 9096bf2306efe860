package dispatch

import (
	"context"
	"fmt"
	"strings"
)

// ComponentKind classifies a command component.
type ComponentKind int

const (
	// KindLiteral matches its name or an alias, case-insensitively.
	KindLiteral ComponentKind = iota
	// KindArgument consumes tokens through a typed parser.
	KindArgument
	// KindFlag matches --name or an alias form anywhere in remaining input.
	KindFlag
)

// String returns the kind name.
func (k ComponentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindArgument:
		return "argument"
	case KindFlag:
		return "flag"
	default:
		return "unknown"
	}
}

type parseFunc[C any] func(ctx context.Context, cctx *CommandContext[C], in *Input) (any, error)

// Component is one element of a command chain: a literal, a typed argument,
// or a flag. Components are configured before registration; registering a
// command copies its components into the tree, so later mutation never
// affects registered commands.
type Component[C any] struct {
	name        string
	kind        ComponentKind
	aliases     []string
	description string

	// argument state
	required    bool
	hasDefault  bool
	defaultVal  any
	parse       parseFunc[C]
	suggest     SuggestionProvider[C]
	contract    string
	consumesAll bool

	// flag state
	takesValue bool
}

// Literal creates a literal component matching name or any alias,
// case-insensitively.
func Literal[C any](name string, aliases ...string) *Component[C] {
	return &Component[C]{name: name, kind: KindLiteral, aliases: aliases}
}

// Required creates a required typed argument. The branch fails when the
// parser rejects the input.
func Required[C any, T any](name string, parser ArgumentParser[C, T]) *Component[C] {
	c := newArgument[C, T](name, parser)
	c.required = true
	return c
}

// Optional creates an optional typed argument with no default: when input
// runs out the value is simply absent from the context.
func Optional[C any, T any](name string, parser ArgumentParser[C, T]) *Component[C] {
	return newArgument[C, T](name, parser)
}

// OptionalDefault creates an optional typed argument that binds def when
// input runs out.
func OptionalDefault[C any, T any](name string, parser ArgumentParser[C, T], def T) *Component[C] {
	c := newArgument[C, T](name, parser)
	c.hasDefault = true
	c.defaultVal = def
	return c
}

func newArgument[C any, T any](name string, parser ArgumentParser[C, T]) *Component[C] {
	c := &Component[C]{
		name:     name,
		kind:     KindArgument,
		contract: parserContract(parser),
	}
	c.parse = func(ctx context.Context, cctx *CommandContext[C], in *Input) (any, error) {
		v, err := parser.Parse(ctx, cctx, in)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	if sp, ok := any(parser).(SuggestionProvider[C]); ok {
		c.suggest = sp
	}
	if g, ok := any(parser).(interface{ ConsumesAll() bool }); ok && g.ConsumesAll() {
		c.consumesAll = true
	}
	return c
}

// NewFlag creates a boolean flag component. Flags match --name, or -a for
// each alias, anywhere in the input after their command path.
func NewFlag[C any](name string, aliases ...string) *Component[C] {
	return &Component[C]{name: name, kind: KindFlag, aliases: aliases}
}

// WithValue marks the flag as value-taking: it accepts --name=value or a
// following value token. Returns the component for chaining.
func (c *Component[C]) WithValue() *Component[C] {
	c.takesValue = true
	return c
}

// WithDescription attaches display detail used by help renderers and
// suggestion descriptions. Returns the component for chaining.
func (c *Component[C]) WithDescription(d string) *Component[C] {
	c.description = d
	return c
}

// WithSuggestions overrides the parser's own suggestions for this component.
// Returns the component for chaining.
func (c *Component[C]) WithSuggestions(p SuggestionProvider[C]) *Component[C] {
	c.suggest = p
	return c
}

// Name returns the component name. For arguments this is the context key the
// parsed value is stored under.
func (c *Component[C]) Name() string { return c.name }

// Kind returns the component kind.
func (c *Component[C]) Kind() ComponentKind { return c.kind }

// Aliases returns the alias set, nil when none.
func (c *Component[C]) Aliases() []string { return c.aliases }

// Description returns the display detail, empty when unset.
func (c *Component[C]) Description() string { return c.description }

// IsRequired reports whether an argument component must parse.
func (c *Component[C]) IsRequired() bool { return c.required }

// HasDefault reports whether an optional argument binds a default.
func (c *Component[C]) HasDefault() bool { return c.hasDefault }

// Default returns the declared default value, nil when none.
func (c *Component[C]) Default() any { return c.defaultVal }

// TakesValue reports whether a flag accepts a value.
func (c *Component[C]) TakesValue() bool { return c.takesValue }

// Contract identifies the parse domain of an argument component. Two sibling
// arguments with equal contracts cannot be told apart at dispatch time, so
// registering the second fails with ErrAmbiguousNode.
func (c *Component[C]) Contract() string { return c.contract }

func (c *Component[C]) matchesLiteral(token string) bool {
	if strings.EqualFold(c.name, token) {
		return true
	}
	for _, a := range c.aliases {
		if strings.EqualFold(a, token) {
			return true
		}
	}
	return false
}

// flagForms returns the spellings a flag component answers to: --name plus
// -a / --a per alias (single-rune aliases get the short form).
func (c *Component[C]) flagForms() []string {
	forms := make([]string, 0, 1+len(c.aliases))
	forms = append(forms, "--"+c.name)
	for _, a := range c.aliases {
		if len([]rune(a)) == 1 {
			forms = append(forms, "-"+a)
		} else {
			forms = append(forms, "--"+a)
		}
	}
	return forms
}

func (c *Component[C]) matchesFlag(token string) bool {
	for _, f := range c.flagForms() {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

// clone returns a shallow copy. Registration stores clones so the tree never
// shares mutable state with caller-held components.
func (c *Component[C]) clone() *Component[C] {
	dup := *c
	if c.aliases != nil {
		dup.aliases = append([]string(nil), c.aliases...)
	}
	return &dup
}

// parserContract derives the ambiguity identity of a parser: its declared
// Contract() when it has one, otherwise its concrete type.
func parserContract(parser any) string {
	if cp, ok := parser.(interface{ Contract() string }); ok {
		return cp.Contract()
	}
	return fmt.Sprintf("%T", parser)
}
