package dispatch

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// computeSuggestions mirrors the dispatch walk over the earlier tokens, then
// collects completions for the final, partial token from every reachable
// child of the frontier node. Any hard failure while consuming earlier
// tokens, such as a rejected value or an unknown flag, yields an empty
// result rather than an error: an unfinishable line has nothing to offer.
func (m *Manager[C]) computeSuggestions(ctx context.Context, sender C, tokens []string) []Suggestion {
	snap := m.tree.load()

	partial := ""
	earlier := tokens
	if len(tokens) > 0 {
		partial = tokens[len(tokens)-1]
		earlier = tokens[:len(tokens)-1]
	}

	cctx := newCommandContext(sender, tokens)
	w := &walker[C]{cctx: cctx, in: NewInput(earlier), check: m.check}

	cur := snap.root
	for {
		pendingFlag, err := w.skimFlags(cur, true)
		if err != nil {
			return nil
		}
		if pendingFlag != nil {
			// The partial completes the flag's value.
			return provideSuggestions(ctx, pendingFlag.suggest, cctx, partial)
		}
		if w.in.Exhausted() {
			break
		}
		next, err := w.matchChild(ctx, cur)
		if err != nil || next == nil {
			return nil
		}
		cur = next
	}

	return m.collectAt(ctx, cur, cctx, partial)
}

// collectAt gathers candidates from the frontier node's children in
// registration order. Argument providers run concurrently, one goroutine
// per providing child; results are reassembled in child order so the merged
// sequence is deterministic. Children the sender cannot enter are skipped
// entirely. Flag spellings are offered only once the partial is dash-led.
func (m *Manager[C]) collectAt(ctx context.Context, cur *Node[C], cctx *CommandContext[C], partial string) []Suggestion {
	children := cur.children
	slots := make([][]Suggestion, len(children))

	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		if !child.allowedFor(cctx.sender, m.check) {
			continue
		}
		comp := child.component
		switch comp.kind {
		case KindLiteral:
			var out []Suggestion
			if hasPrefixFold(comp.name, partial) {
				out = append(out, Suggestion{Value: comp.name, Description: comp.description})
			}
			// Alias spellings only help once the user has started one;
			// an empty partial lists each command once, by primary name.
			if partial != "" {
				for _, alias := range comp.aliases {
					if hasPrefixFold(alias, partial) {
						out = append(out, Suggestion{Value: alias, Description: comp.description})
					}
				}
			}
			slots[i] = out
		case KindArgument:
			if comp.suggest == nil {
				continue
			}
			idx, provider := i, comp.suggest
			g.Go(func() error {
				slots[idx] = provideSuggestions(gctx, provider, cctx, partial)
				return nil
			})
		}
	}
	// Providers never fail the call; errgroup only bounds their lifetime.
	_ = g.Wait()

	var merged []Suggestion
	for _, slot := range slots {
		merged = append(merged, dedupeSuggestions(slot)...)
	}
	if strings.HasPrefix(partial, "-") {
		merged = append(merged, flagSuggestions(cur, cctx, partial)...)
	}
	return merged
}

// provideSuggestions invokes one provider, dropping its contribution on
// error.
func provideSuggestions[C any](ctx context.Context, p SuggestionProvider[C], cctx *CommandContext[C], partial string) []Suggestion {
	if p == nil {
		return nil
	}
	out, err := p.Suggest(ctx, cctx, partial)
	if err != nil {
		return nil
	}
	return out
}

// flagSuggestions offers the unseen visible flags of the node, in every
// spelling that extends the partial.
func flagSuggestions[C any](cur *Node[C], cctx *CommandContext[C], partial string) []Suggestion {
	var out []Suggestion
	for _, f := range cur.flags {
		if cctx.flags.Has(f.name) {
			continue
		}
		for _, form := range f.flagForms() {
			if hasPrefixFold(form, partial) {
				out = append(out, Suggestion{Value: form, Description: f.description})
			}
		}
	}
	return out
}

// dedupeSuggestions removes repeated values within one node's contribution.
// Identical values offered by different nodes are kept; they are distinct
// completions.
func dedupeSuggestions(sugs []Suggestion) []Suggestion {
	if len(sugs) < 2 {
		return sugs
	}
	seen := make(map[string]bool, len(sugs))
	out := sugs[:0]
	for _, s := range sugs {
		if seen[s.Value] {
			continue
		}
		seen[s.Value] = true
		out = append(out, s)
	}
	return out
}
