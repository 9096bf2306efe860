package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testSender is the sender type used across the package tests.
type testSender struct {
	name  string
	perms map[string]bool
}

func sender(name string, perms ...string) *testSender {
	s := &testSender{name: name, perms: make(map[string]bool)}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func permCheck(s *testSender, key string) bool {
	return s.perms[key]
}

// wordParser consumes one token as-is.
type wordParser struct{}

func (wordParser) Parse(_ context.Context, _ *CommandContext[*testSender], in *Input) (string, error) {
	tok, ok := in.Read()
	if !ok {
		return "", errors.New("expected a value")
	}
	return tok, nil
}

// numParser consumes one token as an integer.
type numParser struct{}

func (numParser) Parse(_ context.Context, _ *CommandContext[*testSender], in *Input) (int, error) {
	tok, ok := in.Read()
	if !ok {
		return 0, errors.New("expected an integer")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not an integer", tok)
	}
	return n, nil
}

// failParser rejects everything without consuming.
type failParser struct{}

func (failParser) Parse(_ context.Context, _ *CommandContext[*testSender], in *Input) (string, error) {
	in.Read()
	return "", errors.New("boom")
}

func mustRegister(t *testing.T, m *Manager[*testSender], cmd *Command[*testSender]) {
	t.Helper()
	require.NoError(t, m.Register(cmd))
}

func dispatchNow(t *testing.T, m *Manager[*testSender], s *testSender, tokens ...string) (*ExecutionResult[*testSender], error) {
	t.Helper()
	return m.Dispatch(context.Background(), s, tokens).Wait(context.Background())
}

// newTestTree builds a manager with the command set shared by most tests:
//
//	version
//	track <path> [--remote=<name>] [--verbose|-v]
//	config set <key> <value>
//	config get <key>
//	greet <name> [greeting]
func newTestTree(t *testing.T, opts ...Option[*testSender]) (*Manager[*testSender], *[]string) {
	t.Helper()
	m := NewManager[*testSender](opts...)
	var mu sync.Mutex
	var log []string

	record := func(label string) HandlerFunc[*testSender] {
		return func(_ context.Context, cctx *CommandContext[*testSender]) error {
			mu.Lock()
			defer mu.Unlock()
			log = append(log, label)
			return nil
		}
	}

	mustRegister(t, m, NewCommand(Literal[*testSender]("version")).
		Handler(record("version")).
		Build())

	mustRegister(t, m, NewCommand(Literal[*testSender]("track", "t")).
		Argument(Required("path", wordParser{})).
		Flag(NewFlag[*testSender]("remote").WithValue()).
		Flag(NewFlag[*testSender]("verbose", "v")).
		Handler(record("track")).
		Build())

	mustRegister(t, m, NewCommand(Literal[*testSender]("config")).
		Literal("set").
		Argument(Required("key", wordParser{})).
		Argument(Required("value", wordParser{})).
		Handler(record("config set")).
		Build())

	mustRegister(t, m, NewCommand(Literal[*testSender]("config")).
		Literal("get").
		Argument(Required("key", wordParser{})).
		Handler(record("config get")).
		Build())

	mustRegister(t, m, NewCommand(Literal[*testSender]("greet")).
		Argument(Required("name", wordParser{})).
		Argument(OptionalDefault[*testSender, string]("greeting", wordParser{}, "hello")).
		Handler(record("greet")).
		Build())

	return m, &log
}

func TestDispatch_SimpleCommand(t *testing.T) {
	m, log := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "version")
	require.NoError(t, err)
	require.Equal(t, []string{"version"}, *log)
	require.Equal(t, "version", res.Command.RootName())
	require.Equal(t, []string{"version"}, res.Context.Path())
}

func TestDispatch_NestedCommand(t *testing.T) {
	m, log := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "config", "set", "theme", "dark")
	require.NoError(t, err)
	require.Equal(t, []string{"config set"}, *log)

	key, ok := Value[string](res.Context, "key")
	require.True(t, ok)
	require.Equal(t, "theme", key)
	value, ok := Value[string](res.Context, "value")
	require.True(t, ok)
	require.Equal(t, "dark", value)
}

func TestDispatch_LiteralAliasAndCase(t *testing.T) {
	m, log := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "T", "/repo")
	require.NoError(t, err)

	_, err = dispatchNow(t, m, sender("amy"), "TRACK", "/repo")
	require.NoError(t, err)

	require.Equal(t, []string{"track", "track"}, *log)
}

func TestDispatch_TypedArgument(t *testing.T) {
	m := NewManager[*testSender]()
	var got int
	mustRegister(t, m, NewCommand(Literal[*testSender]("take")).
		Argument(Required("count", numParser{})).
		HandlerFunc(func(_ context.Context, cctx *CommandContext[*testSender]) error {
			got = ValueOr(cctx, "count", -1)
			return nil
		}).
		Build())

	_, err := dispatchNow(t, m, sender("amy"), "take", "42")
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestDispatch_ArgumentParseError(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("take")).
		Argument(Required("count", numParser{})).
		Build())

	_, err := dispatchNow(t, m, sender("amy"), "take", "plenty")
	require.Error(t, err)
	require.Equal(t, ErrArgumentParse, KindOf(err))

	var de *Error
	require.ErrorAs(t, err, &de)
	require.NotNil(t, de.Cause)
	require.Contains(t, de.Cause.Error(), "not an integer")
}

func TestDispatch_OptionalDefaultBinds(t *testing.T) {
	m, _ := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "greet", "world")
	require.NoError(t, err)
	require.Equal(t, "hello", ValueOr(res.Context, "greeting", ""))

	res, err = dispatchNow(t, m, sender("amy"), "greet", "world", "hey")
	require.NoError(t, err)
	require.Equal(t, "hey", ValueOr(res.Context, "greeting", ""))
}

func TestDispatch_OptionalWithoutDefaultIsAbsent(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("list")).
		Argument(Optional("filter", wordParser{})).
		Build())

	res, err := dispatchNow(t, m, sender("amy"), "list")
	require.NoError(t, err)
	require.False(t, res.Context.Contains("filter"))

	res, err = dispatchNow(t, m, sender("amy"), "list", "pending")
	require.NoError(t, err)
	require.Equal(t, "pending", ValueOr(res.Context, "filter", ""))
}

func TestDispatch_MissingRequiredArgument(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "track")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
	require.Contains(t, err.Error(), "<path>")
}

func TestDispatch_MissingSubcommand(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "config")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
}

func TestDispatch_UnknownRootCommand(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "bogus")
	require.Error(t, err)
	require.Equal(t, ErrNoSuchCommand, KindOf(err))
}

func TestDispatch_EmptyInput(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"))
	require.Error(t, err)
	require.Equal(t, ErrNoSuchCommand, KindOf(err))
}

func TestDispatch_UnknownSubcommand(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "config", "wipe")
	require.Error(t, err)
	require.Equal(t, ErrNoSuchCommand, KindOf(err))

	var de *Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, []string{"config"}, de.Path)
}

func TestDispatch_TrailingInput(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "version", "extra")
	require.Error(t, err)
	require.Equal(t, ErrTooManyArguments, KindOf(err))
}

func TestDispatch_LiteralBeatsArgument(t *testing.T) {
	m := NewManager[*testSender]()
	var via string
	mustRegister(t, m, NewCommand(Literal[*testSender]("show")).
		Argument(Required("target", wordParser{})).
		HandlerFunc(func(_ context.Context, _ *CommandContext[*testSender]) error {
			via = "argument"
			return nil
		}).
		Build())
	mustRegister(t, m, NewCommand(Literal[*testSender]("show")).
		Literal("all").
		HandlerFunc(func(_ context.Context, _ *CommandContext[*testSender]) error {
			via = "literal"
			return nil
		}).
		Build())

	_, err := dispatchNow(t, m, sender("amy"), "show", "all")
	require.NoError(t, err)
	require.Equal(t, "literal", via)

	_, err = dispatchNow(t, m, sender("amy"), "show", "everything")
	require.NoError(t, err)
	require.Equal(t, "argument", via)
}

func TestDispatch_SiblingArgumentsInRegistrationOrder(t *testing.T) {
	m := NewManager[*testSender]()
	var via string
	mustRegister(t, m, NewCommand(Literal[*testSender]("set")).
		Argument(Required("count", numParser{})).
		HandlerFunc(func(_ context.Context, _ *CommandContext[*testSender]) error {
			via = "int"
			return nil
		}).
		Build())
	mustRegister(t, m, NewCommand(Literal[*testSender]("set")).
		Argument(Required("label", wordParser{})).
		HandlerFunc(func(_ context.Context, _ *CommandContext[*testSender]) error {
			via = "word"
			return nil
		}).
		Build())

	// "12" parses as both; the earlier registration wins.
	_, err := dispatchNow(t, m, sender("amy"), "set", "12")
	require.NoError(t, err)
	require.Equal(t, "int", via)

	// "high" only parses as a word; the walk falls through to it.
	_, err = dispatchNow(t, m, sender("amy"), "set", "high")
	require.NoError(t, err)
	require.Equal(t, "word", via)
}

func TestDispatch_FailedParserConsumesNothing(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("run")).
		Argument(Required("first", failParser{})).
		Build())
	mustRegister(t, m, NewCommand(Literal[*testSender]("run")).
		Argument(Required("second", wordParser{})).
		Argument(Required("third", wordParser{})).
		Build())

	// failParser reads a token before rejecting; the walk must rewind so
	// the sibling sees both tokens.
	res, err := dispatchNow(t, m, sender("amy"), "run", "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a", ValueOr(res.Context, "second", ""))
	require.Equal(t, "b", ValueOr(res.Context, "third", ""))
}

func TestDispatch_HandlerlessCommandIsNoop(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("stub")).Build())

	res, err := dispatchNow(t, m, sender("amy"), "stub")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "stub", res.Command.RootName())
	require.Nil(t, res.Command.Handler())
}

func TestDispatch_HandlerErrorResolvesDeferred(t *testing.T) {
	m := NewManager[*testSender]()
	boom := errors.New("exploded")
	mustRegister(t, m, NewCommand(Literal[*testSender]("explode")).
		HandlerFunc(func(_ context.Context, _ *CommandContext[*testSender]) error {
			return boom
		}).
		Build())

	_, err := dispatchNow(t, m, sender("amy"), "explode")
	require.ErrorIs(t, err, boom)
}

func TestDispatch_ContextCarriesInvocationIdentity(t *testing.T) {
	m, _ := newTestTree(t)

	first, err := dispatchNow(t, m, sender("amy"), "version")
	require.NoError(t, err)
	second, err := dispatchNow(t, m, sender("amy"), "version")
	require.NoError(t, err)

	require.NotEqual(t, first.Context.InvocationID(), second.Context.InvocationID())
	require.Equal(t, []string{"version"}, first.Context.RawInput())
	require.Equal(t, "amy", first.Context.Sender().name)
}

func TestDispatch_EarlierValuesVisibleToLaterParsers(t *testing.T) {
	m := NewManager[*testSender]()

	// The second parser echoes what the first one stored.
	echo := ParserFunc[*testSender, string](func(_ context.Context, cctx *CommandContext[*testSender], in *Input) (string, error) {
		if _, ok := in.Read(); !ok {
			return "", errors.New("expected a value")
		}
		return ValueOr(cctx, "key", "?") + "!", nil
	})
	mustRegister(t, m, NewCommand(Literal[*testSender]("pair")).
		Argument(Required("key", wordParser{})).
		Argument(Required("echo", echo)).
		Build())

	res, err := dispatchNow(t, m, sender("amy"), "pair", "left", "right")
	require.NoError(t, err)
	require.Equal(t, "left!", ValueOr(res.Context, "echo", ""))
}
