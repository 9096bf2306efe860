package parsers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/footprint-tools/dispatch"
)

type intParser[C any] struct {
	min, max int
}

// Int parses one token as a base-10 integer.
func Int[C any]() dispatch.ArgumentParser[C, int] {
	return intParser[C]{min: math.MinInt, max: math.MaxInt}
}

// IntBetween parses one token as an integer within [min, max] inclusive.
func IntBetween[C any](min, max int) dispatch.ArgumentParser[C, int] {
	return intParser[C]{min: min, max: max}
}

// Parse implements dispatch.ArgumentParser.
func (p intParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (int, error) {
	tok, ok := in.Read()
	if !ok {
		return 0, errors.New("expected an integer")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not an integer", tok)
	}
	if n < p.min || n > p.max {
		return 0, fmt.Errorf("%d is not between %d and %d", n, p.min, p.max)
	}
	return n, nil
}

// Contract implements the ambiguity identity: two differently-bounded
// integer arguments still parse the same token shapes.
func (intParser[C]) Contract() string { return "int" }
