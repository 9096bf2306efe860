package console

import "strings"

// Tokenize splits a command line on whitespace, keeping double-quoted spans
// as single tokens with the quotes stripped. An unterminated quote runs to
// the end of the line. This is the caller-supplied tokenizer contract of
// the dispatcher: the library itself never re-splits tokens.
func Tokenize(line string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
		started  bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			started = true
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}

// SuggestTokens tokenizes a line for the suggestion engine: a line ending in
// whitespace (or an empty line) gets an empty trailing partial appended, so
// completion targets the next token rather than the last typed one.
func SuggestTokens(line string) []string {
	tokens := Tokenize(line)
	if line == "" || endsWithSeparator(line) {
		tokens = append(tokens, "")
	}
	return tokens
}

func endsWithSeparator(line string) bool {
	return strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t")
}
