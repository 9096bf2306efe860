package parsers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/dispatch"
)

type enumParser[C any] struct {
	values []string
}

// Enum parses one token as a member of a fixed value set, case-insensitive,
// returning the declared spelling. Two enums with different value sets have
// different contracts and may sit side by side in a tree.
func Enum[C any](values ...string) dispatch.ArgumentParser[C, string] {
	return enumParser[C]{values: values}
}

// Parse implements dispatch.ArgumentParser.
func (p enumParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (string, error) {
	tok, ok := in.Read()
	if !ok {
		return "", errors.New("expected one of " + strings.Join(p.values, "|"))
	}
	for _, v := range p.values {
		if strings.EqualFold(v, tok) {
			return v, nil
		}
	}
	return "", fmt.Errorf("'%s' is not one of %s", tok, strings.Join(p.values, "|"))
}

// Suggest implements dispatch.SuggestionProvider.
func (p enumParser[C]) Suggest(_ context.Context, _ *dispatch.CommandContext[C], partial string) ([]dispatch.Suggestion, error) {
	var out []dispatch.Suggestion
	for _, v := range p.values {
		if len(v) >= len(partial) && strings.EqualFold(v[:len(partial)], partial) {
			out = append(out, dispatch.Suggestion{Value: v})
		}
	}
	return out, nil
}

// Contract implements the ambiguity identity, carrying the value set.
func (p enumParser[C]) Contract() string { return "enum(" + strings.Join(p.values, "|") + ")" }
