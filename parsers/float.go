package parsers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/footprint-tools/dispatch"
)

type floatParser[C any] struct{}

// Float64 parses one token as a floating point number.
func Float64[C any]() dispatch.ArgumentParser[C, float64] {
	return floatParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (floatParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (float64, error) {
	tok, ok := in.Read()
	if !ok {
		return 0, errors.New("expected a number")
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a number", tok)
	}
	return f, nil
}

// Contract implements the ambiguity identity.
func (floatParser[C]) Contract() string { return "float" }
