package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the type of dispatch or registration error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota

	// Dispatch-time kinds. These only ever surface through a resolved
	// Deferred, never as a synchronous return from Dispatch.
	ErrNoSuchCommand
	ErrInvalidSyntax
	ErrArgumentParse
	ErrTooManyArguments
	ErrPermissionDenied
	ErrHandlerPanic
	ErrCoordinatorClosed

	// Registration-time kinds. These return synchronously from Register
	// and DeleteRoot.
	ErrAmbiguousNode
	ErrDuplicateCommand
	ErrInvalidCommand
)

// String returns the kind name used in logs and journal outcome columns.
func (k ErrorKind) String() string {
	switch k {
	case ErrNoSuchCommand:
		return "no-such-command"
	case ErrInvalidSyntax:
		return "invalid-syntax"
	case ErrArgumentParse:
		return "argument-parse"
	case ErrTooManyArguments:
		return "too-many-arguments"
	case ErrPermissionDenied:
		return "permission-denied"
	case ErrHandlerPanic:
		return "handler-panic"
	case ErrCoordinatorClosed:
		return "coordinator-closed"
	case ErrAmbiguousNode:
		return "ambiguous-node"
	case ErrDuplicateCommand:
		return "duplicate-command"
	case ErrInvalidCommand:
		return "invalid-command"
	default:
		return "unknown"
	}
}

// Error is the semantic error type for every failure the dispatcher reports.
// Path holds the component names walked before the failure, when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    []string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any. Argument parse failures
// wrap the parser's own error so callers can errors.Is/As through it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the ErrorKind carried by err, or ErrUnknown when err is
// nil or not a dispatcher error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrUnknown
}

func pathString(path []string) string {
	return strings.Join(path, " ")
}

func noSuchCommand(token string, path []string) *Error {
	msg := fmt.Sprintf("unknown command '%s'", token)
	if len(path) > 0 {
		msg = fmt.Sprintf("unknown subcommand '%s' of '%s'", token, pathString(path))
	}
	return &Error{Kind: ErrNoSuchCommand, Message: msg, Path: path}
}

func invalidSyntax(what string, path []string) *Error {
	return &Error{
		Kind:    ErrInvalidSyntax,
		Message: fmt.Sprintf("incomplete command '%s': %s", pathString(path), what),
		Path:    path,
	}
}

func unknownFlag(token string, path []string) *Error {
	return &Error{
		Kind:    ErrInvalidSyntax,
		Message: fmt.Sprintf("unknown flag '%s' for '%s'", token, pathString(path)),
		Path:    path,
	}
}

func argumentParse(name string, path []string, cause error) *Error {
	return &Error{
		Kind:    ErrArgumentParse,
		Message: fmt.Sprintf("invalid value for argument '%s': %v", name, cause),
		Path:    path,
		Cause:   cause,
	}
}

func tooManyArguments(token string, path []string) *Error {
	return &Error{
		Kind:    ErrTooManyArguments,
		Message: fmt.Sprintf("unexpected trailing input '%s' after '%s'", token, pathString(path)),
		Path:    path,
	}
}

func permissionDenied(path []string) *Error {
	return &Error{
		Kind:    ErrPermissionDenied,
		Message: fmt.Sprintf("permission denied for '%s'", pathString(path)),
		Path:    path,
	}
}

func handlerPanic(path []string, value any) *Error {
	return &Error{
		Kind:    ErrHandlerPanic,
		Message: fmt.Sprintf("handler for '%s' panicked: %v", pathString(path), value),
		Path:    path,
		Cause:   fmt.Errorf("%v", value),
	}
}

func coordinatorClosed() *Error {
	return &Error{Kind: ErrCoordinatorClosed, Message: "execution coordinator is closed"}
}

func ambiguousNode(name, contract string, path []string) *Error {
	return &Error{
		Kind: ErrAmbiguousNode,
		Message: fmt.Sprintf(
			"argument '%s' is ambiguous with an existing sibling at '%s': both parse %s",
			name, pathString(path), contract),
		Path: path,
	}
}

func duplicateCommand(path []string) *Error {
	return &Error{
		Kind:    ErrDuplicateCommand,
		Message: fmt.Sprintf("a command with a handler is already registered at '%s'", pathString(path)),
		Path:    path,
	}
}

func invalidCommand(reason string) *Error {
	return &Error{Kind: ErrInvalidCommand, Message: "invalid command: " + reason}
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
