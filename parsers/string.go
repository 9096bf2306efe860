// Package parsers provides the standard argument parsers: strings in three
// consumption modes, numbers, booleans, durations, enums and UUIDs. Every
// parser is generic in the sender type and plugs into dispatch.Required,
// dispatch.Optional or dispatch.OptionalDefault. Parsers that can propose
// completions also implement dispatch.SuggestionProvider.
package parsers

import (
	"context"
	"errors"
	"strings"

	"github.com/footprint-tools/dispatch"
)

type stringParser[C any] struct{}

// String parses exactly one token.
func String[C any]() dispatch.ArgumentParser[C, string] {
	return stringParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (stringParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (string, error) {
	tok, ok := in.Read()
	if !ok {
		return "", errors.New("expected a value")
	}
	return tok, nil
}

// Contract implements the ambiguity identity.
func (stringParser[C]) Contract() string { return "string" }

type greedyParser[C any] struct{}

// Greedy parses the rest of the input as a single space-joined string. A
// greedy argument must be the last component of its command.
func Greedy[C any]() dispatch.ArgumentParser[C, string] {
	return greedyParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (greedyParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (string, error) {
	if in.Exhausted() {
		return "", errors.New("expected a value")
	}
	return strings.Join(in.ReadAll(), " "), nil
}

// Contract implements the ambiguity identity.
func (greedyParser[C]) Contract() string { return "string(greedy)" }

// ConsumesAll marks the parser as input-terminal.
func (greedyParser[C]) ConsumesAll() bool { return true }

type quotedParser[C any] struct{}

// Quoted parses one token, or a double-quoted span joined across tokens:
// `"two words"` yields `two words`.
func Quoted[C any]() dispatch.ArgumentParser[C, string] {
	return quotedParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (quotedParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (string, error) {
	tok, ok := in.Read()
	if !ok {
		return "", errors.New("expected a value")
	}
	if !strings.HasPrefix(tok, `"`) {
		return tok, nil
	}
	if len(tok) >= 2 && strings.HasSuffix(tok, `"`) {
		return tok[1 : len(tok)-1], nil
	}
	parts := []string{tok[1:]}
	for {
		next, more := in.Read()
		if !more {
			return "", errors.New("unterminated quoted string")
		}
		if strings.HasSuffix(next, `"`) {
			parts = append(parts, next[:len(next)-1])
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, next)
	}
}

// Contract implements the ambiguity identity.
func (quotedParser[C]) Contract() string { return "string(quoted)" }
