package parsers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/dispatch"
)

type boolParser[C any] struct{}

// Bool parses one token as a boolean. Accepted spellings, case-insensitive:
// true/yes/on/1 and false/no/off/0.
func Bool[C any]() dispatch.ArgumentParser[C, bool] {
	return boolParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (boolParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (bool, error) {
	tok, ok := in.Read()
	if !ok {
		return false, errors.New("expected true or false")
	}
	switch strings.ToLower(tok) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("'%s' is not a boolean", tok)
	}
}

// Suggest implements dispatch.SuggestionProvider.
func (boolParser[C]) Suggest(_ context.Context, _ *dispatch.CommandContext[C], partial string) ([]dispatch.Suggestion, error) {
	var out []dispatch.Suggestion
	for _, v := range []string{"true", "false"} {
		if strings.HasPrefix(v, strings.ToLower(partial)) {
			out = append(out, dispatch.Suggestion{Value: v})
		}
	}
	return out, nil
}

// Contract implements the ambiguity identity.
func (boolParser[C]) Contract() string { return "bool" }
