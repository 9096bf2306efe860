package dispatch

import (
	"context"
	"strings"
)

// PermissionChecker decides whether a sender holds a permission key. The
// gate is fail-closed: with a checker installed, unknown keys must return
// false.
type PermissionChecker[C any] func(sender C, key string) bool

// walker carries the state of one parse walk over a tree snapshot. Both
// dispatch and the suggestion engine drive it; they differ only in how they
// treat the end of input.
type walker[C any] struct {
	cctx  *CommandContext[C]
	in    *Input
	check PermissionChecker[C]
}

// looksLikeFlag reports whether a token is flag-shaped. Lone dashes and
// negative numbers are argument input.
func looksLikeFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	c := tok[1]
	if (c >= '0' && c <= '9') || c == '.' {
		return false
	}
	return true
}

// skimFlags consumes leading flag-shaped tokens against the node's visible
// flag set. In lenient mode a trailing value-taking flag with no value token
// left is returned instead of failing; the suggestion engine completes its
// value.
func (w *walker[C]) skimFlags(cur *Node[C], lenient bool) (*Component[C], *Error) {
	for {
		tok, ok := w.in.Peek()
		if !ok || !looksLikeFlag(tok) {
			return nil, nil
		}

		name := tok
		value := ""
		hasValue := false
		if i := strings.Index(tok, "="); i >= 0 {
			name, value, hasValue = tok[:i], tok[i+1:], true
		}

		f := cur.findFlag(name)
		if f == nil {
			return nil, unknownFlag(name, w.cctx.path)
		}
		w.in.Read()

		if !f.takesValue {
			if hasValue {
				return nil, invalidSyntax("flag '--"+f.name+"' does not take a value", w.cctx.path)
			}
			w.cctx.flags.record(f.name, "")
			continue
		}

		if !hasValue {
			next, more := w.in.Peek()
			if !more {
				if lenient {
					return f, nil
				}
				return nil, invalidSyntax("flag '--"+f.name+"' requires a value", w.cctx.path)
			}
			if looksLikeFlag(next) {
				return nil, invalidSyntax("flag '--"+f.name+"' requires a value", w.cctx.path)
			}
			w.in.Read()
			value = next
		}
		w.cctx.flags.record(f.name, value)
	}
}

// advance performs one walk step at cur: skim flags, then match the next
// token against children in priority order (literals before arguments,
// registration order within each kind). It returns the entered child, or
// nil when input is exhausted after the skim, or a classified error.
func (w *walker[C]) advance(ctx context.Context, cur *Node[C]) (*Node[C], *Error) {
	if _, err := w.skimFlags(cur, false); err != nil {
		return nil, err
	}
	return w.matchChild(ctx, cur)
}

// matchChild matches the next token against cur's children. Input must
// already be flag-skimmed.
func (w *walker[C]) matchChild(ctx context.Context, cur *Node[C]) (*Node[C], *Error) {
	tok, ok := w.in.Peek()
	if !ok {
		return nil, nil
	}

	for _, child := range cur.children {
		comp := child.component
		if comp.kind != KindLiteral || !comp.matchesLiteral(tok) {
			continue
		}
		w.in.Read()
		w.cctx.pushPath(comp.name)
		if !child.allowedFor(w.cctx.sender, w.check) {
			return nil, permissionDenied(w.cctx.path)
		}
		return child, nil
	}

	var parseErr *Error
	var denied bool
	for _, child := range cur.children {
		comp := child.component
		if comp.kind != KindArgument {
			continue
		}
		if !child.allowedFor(w.cctx.sender, w.check) {
			denied = true
			continue
		}
		mark := w.in.mark()
		val, err := comp.parse(ctx, w.cctx, w.in)
		if err != nil {
			w.in.reset(mark)
			parseErr = argumentParse(comp.name, w.cctx.path, err)
			continue
		}
		w.cctx.set(comp.name, val)
		w.cctx.pushPath(comp.name)
		return child, nil
	}

	// Most specific failure wins: a rejected value over a hidden branch,
	// a hidden branch over generic classification.
	if parseErr != nil {
		return nil, parseErr
	}
	if denied {
		return nil, permissionDenied(append(w.cctx.Path(), tok))
	}
	if cur.IsExecutable() {
		return nil, tooManyArguments(tok, w.cctx.path)
	}
	return nil, noSuchCommand(tok, w.cctx.path)
}

// completeOptionals descends from an input-exhausted node through a chain of
// single optional-argument children, binding declared defaults, until an
// executable node is reached. Returns nil when the chain cannot complete.
func (w *walker[C]) completeOptionals(cur *Node[C]) (*Node[C], *Error) {
	for !cur.IsExecutable() {
		if len(cur.children) != 1 {
			return nil, nil
		}
		child := cur.children[0]
		comp := child.component
		if comp.kind != KindArgument || comp.required {
			return nil, nil
		}
		w.cctx.pushPath(comp.name)
		if !child.allowedFor(w.cctx.sender, w.check) {
			return nil, permissionDenied(w.cctx.path)
		}
		if comp.hasDefault {
			w.cctx.set(comp.name, comp.defaultVal)
		}
		cur = child
	}
	return cur, nil
}

// resolve runs the full dispatch walk and returns the executable invocation.
func (w *walker[C]) resolve(ctx context.Context, root *Node[C]) (*Executable[C], *Error) {
	cur := root
	for {
		next, err := w.advance(ctx, cur)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		cur = next
	}

	if !cur.IsExecutable() {
		done, err := w.completeOptionals(cur)
		if err != nil {
			return nil, err
		}
		if done == nil {
			return nil, w.classifyIncomplete(cur, root)
		}
		cur = done
	}

	cmd := cur.effectiveCommand()
	if err := w.validateResolved(cmd); err != nil {
		return nil, err
	}
	return &Executable[C]{Context: w.cctx, Command: cmd}, nil
}

// classifyIncomplete maps exhausted input at a non-executable node to the
// right failure: nothing matched at the root is an unknown command, a
// deeper dead end is missing input for a path that continues.
func (w *walker[C]) classifyIncomplete(cur, root *Node[C]) *Error {
	if cur == root {
		return noSuchCommand("", nil)
	}
	return invalidSyntax("expected "+expectedAt(cur), w.cctx.path)
}

// expectedAt names what a node accepts next, for incomplete-input messages.
func expectedAt[C any](n *Node[C]) string {
	var parts []string
	for _, child := range n.children {
		comp := child.component
		switch comp.kind {
		case KindLiteral:
			parts = append(parts, "'"+comp.name+"'")
		case KindArgument:
			parts = append(parts, "<"+comp.name+">")
		}
	}
	if len(parts) == 0 {
		return "more input"
	}
	return strings.Join(parts, " or ")
}

// validateResolved applies the end-of-walk checks: every flag seen must be
// declared by the resolved command, and the resolved command's own
// permission must hold even when a sibling owner made the path visible.
func (w *walker[C]) validateResolved(cmd *Command[C]) *Error {
	for _, name := range w.cctx.flags.order {
		declared := false
		for _, f := range cmd.flags {
			if f.name == name {
				declared = true
				break
			}
		}
		if !declared {
			return unknownFlag("--"+name, w.cctx.path)
		}
	}
	if cmd.permission != "" && w.check != nil && !w.check(w.cctx.sender, cmd.permission) {
		return permissionDenied(w.cctx.path)
	}
	return nil
}
