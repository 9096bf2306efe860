package parsers

import (
	"context"
	"testing"

	"github.com/footprint-tools/dispatch"
)

type testSender struct{ name string }

// parseOne runs a parser against tokens and returns the value, the error
// and how many tokens were consumed.
func parseOne[T any](t *testing.T, p dispatch.ArgumentParser[*testSender, T], tokens ...string) (T, error, int) {
	t.Helper()
	in := dispatch.NewInput(tokens)
	before := in.Remaining()
	v, err := p.Parse(context.Background(), nil, in)
	return v, err, before - in.Remaining()
}

// suggestFor runs a parser's suggestion provider for a partial token.
func suggestFor[T any](t *testing.T, p dispatch.ArgumentParser[*testSender, T], partial string) []string {
	t.Helper()
	sp, ok := any(p).(dispatch.SuggestionProvider[*testSender])
	if !ok {
		t.Fatalf("parser %T does not provide suggestions", p)
	}
	sugs, err := sp.Suggest(context.Background(), nil, partial)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	values := make([]string, len(sugs))
	for i, s := range sugs {
		values[i] = s.Value
	}
	return values
}
