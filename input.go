package dispatch

import "strings"

// Input is a cursor over caller-tokenized command input. Tokenization is the
// caller's contract; the dispatcher never re-splits tokens. Parsers consume
// tokens by reading past them, and the dispatch walk restores the cursor
// whenever a parser fails, so a failed parse never consumes input.
type Input struct {
	tokens []string
	cursor int
}

// NewInput wraps tokens in a fresh cursor positioned at the first token.
func NewInput(tokens []string) *Input {
	return &Input{tokens: tokens}
}

// Peek returns the next token without consuming it.
func (in *Input) Peek() (string, bool) {
	if in.cursor >= len(in.tokens) {
		return "", false
	}
	return in.tokens[in.cursor], true
}

// Read consumes and returns the next token.
func (in *Input) Read() (string, bool) {
	tok, ok := in.Peek()
	if ok {
		in.cursor++
	}
	return tok, ok
}

// Remaining reports how many tokens are left.
func (in *Input) Remaining() int {
	return len(in.tokens) - in.cursor
}

// Exhausted reports whether all tokens have been consumed.
func (in *Input) Exhausted() bool {
	return in.cursor >= len(in.tokens)
}

// RemainingText joins all unconsumed tokens with single spaces. Greedy
// parsers use it to consume the rest of the input in one step.
func (in *Input) RemainingText() string {
	return strings.Join(in.tokens[in.cursor:], " ")
}

// ReadAll consumes every remaining token and returns them.
func (in *Input) ReadAll() []string {
	rest := in.tokens[in.cursor:]
	in.cursor = len(in.tokens)
	return rest
}

// Tokens returns the full underlying token slice, including consumed tokens.
func (in *Input) Tokens() []string {
	return in.tokens
}

func (in *Input) mark() int {
	return in.cursor
}

func (in *Input) reset(mark int) {
	in.cursor = mark
}
