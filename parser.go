package dispatch

import (
	"context"
	"strings"
)

// ArgumentParser converts leading input tokens into a typed value. Parsers
// consume by reading from in; on error the walk rewinds the cursor, so a
// failing parser does not need to restore what it read. Implementations may
// block on ctx (remote lookups, rate-limited sources) and should return
// ctx.Err() when cancelled.
//
// Parsers that can propose completions additionally implement
// SuggestionProvider for the same sender type.
type ArgumentParser[C any, T any] interface {
	Parse(ctx context.Context, cctx *CommandContext[C], in *Input) (T, error)
}

// ParserFunc adapts a function to ArgumentParser.
type ParserFunc[C any, T any] func(ctx context.Context, cctx *CommandContext[C], in *Input) (T, error)

// Parse implements ArgumentParser.
func (f ParserFunc[C, T]) Parse(ctx context.Context, cctx *CommandContext[C], in *Input) (T, error) {
	return f(ctx, cctx, in)
}

// Suggestion is one completion candidate. Value is the text that would be
// inserted; Description is optional display detail.
type Suggestion struct {
	Value       string
	Description string
}

// SuggestionProvider produces completion candidates for one argument
// position. partial is the token being typed, possibly empty. Providers see
// the live context with every earlier argument already parsed. A provider
// error drops its candidates from the merged result; it never fails the
// surrounding suggestion call.
type SuggestionProvider[C any] interface {
	Suggest(ctx context.Context, cctx *CommandContext[C], partial string) ([]Suggestion, error)
}

// SuggestionProviderFunc adapts a function to SuggestionProvider.
type SuggestionProviderFunc[C any] func(ctx context.Context, cctx *CommandContext[C], partial string) ([]Suggestion, error)

// Suggest implements SuggestionProvider.
func (f SuggestionProviderFunc[C]) Suggest(ctx context.Context, cctx *CommandContext[C], partial string) ([]Suggestion, error) {
	return f(ctx, cctx, partial)
}

// SuggestStrings returns a provider over a fixed value set, filtered to
// values with the partial as case-insensitive prefix.
func SuggestStrings[C any](values ...string) SuggestionProvider[C] {
	return SuggestionProviderFunc[C](func(_ context.Context, _ *CommandContext[C], partial string) ([]Suggestion, error) {
		out := make([]Suggestion, 0, len(values))
		for _, v := range values {
			if hasPrefixFold(v, partial) {
				out = append(out, Suggestion{Value: v})
			}
		}
		return out, nil
	})
}

// SuggestOf returns a provider over fixed suggestions, filtered like
// SuggestStrings on the suggestion values.
func SuggestOf[C any](suggestions ...Suggestion) SuggestionProvider[C] {
	return SuggestionProviderFunc[C](func(_ context.Context, _ *CommandContext[C], partial string) ([]Suggestion, error) {
		out := make([]Suggestion, 0, len(suggestions))
		for _, s := range suggestions {
			if hasPrefixFold(s.Value, partial) {
				out = append(out, s)
			}
		}
		return out, nil
	})
}

// NoSuggestions returns a provider that always yields nothing. Attaching it
// as an override silences a parser's own suggestions.
func NoSuggestions[C any]() SuggestionProvider[C] {
	return SuggestionProviderFunc[C](func(context.Context, *CommandContext[C], string) ([]Suggestion, error) {
		return nil, nil
	})
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
