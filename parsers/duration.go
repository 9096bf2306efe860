package parsers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/footprint-tools/dispatch"
)

type durationParser[C any] struct{}

// Duration parses one token with time.ParseDuration semantics ("90s",
// "1h30m", "250ms").
func Duration[C any]() dispatch.ArgumentParser[C, time.Duration] {
	return durationParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (durationParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (time.Duration, error) {
	tok, ok := in.Read()
	if !ok {
		return 0, errors.New("expected a duration")
	}
	d, err := time.ParseDuration(tok)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a duration", tok)
	}
	return d, nil
}

// Suggest implements dispatch.SuggestionProvider: a bare number completes
// into unit forms.
func (durationParser[C]) Suggest(_ context.Context, _ *dispatch.CommandContext[C], partial string) ([]dispatch.Suggestion, error) {
	if partial == "" || !allDigits(partial) {
		return nil, nil
	}
	var out []dispatch.Suggestion
	for _, unit := range []string{"s", "m", "h"} {
		out = append(out, dispatch.Suggestion{Value: partial + unit})
	}
	return out, nil
}

// Contract implements the ambiguity identity.
func (durationParser[C]) Contract() string { return "duration" }

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
