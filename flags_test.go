package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlagSet_Accessors(t *testing.T) {
	f := newFlagSet()
	f.record("verbose", "")
	f.record("remote", "origin")
	f.record("limit", "25")
	f.record("timeout", "90s")
	f.record("verbose", "")

	require.True(t, f.Has("verbose"))
	require.False(t, f.Has("quiet"))
	require.Equal(t, 2, f.Count("verbose"))
	require.Equal(t, []string{"verbose", "remote", "limit", "timeout"}, f.Names())

	require.Equal(t, "origin", f.String("remote", "upstream"))
	require.Equal(t, "upstream", f.String("missing", "upstream"))
	require.Equal(t, 25, f.Int("limit", 10))
	require.Equal(t, 10, f.Int("remote", 10))
	require.Equal(t, 90*time.Second, f.Duration("timeout", time.Minute))
	require.Equal(t, time.Minute, f.Duration("missing", time.Minute))
}

func TestDispatch_BoolFlagLongAndShort(t *testing.T) {
	m, _ := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "--verbose")
	require.NoError(t, err)
	require.True(t, res.Context.Flags().Has("verbose"))

	res, err = dispatchNow(t, m, sender("amy"), "track", "/repo", "-v")
	require.NoError(t, err)
	require.True(t, res.Context.Flags().Has("verbose"))
}

func TestDispatch_ValueFlagBothForms(t *testing.T) {
	m, _ := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "--remote=origin")
	require.NoError(t, err)
	require.Equal(t, "origin", res.Context.Flags().String("remote", ""))

	res, err = dispatchNow(t, m, sender("amy"), "track", "/repo", "--remote", "upstream")
	require.NoError(t, err)
	require.Equal(t, "upstream", res.Context.Flags().String("remote", ""))
}

func TestDispatch_FlagsAreOrderIndependent(t *testing.T) {
	m, _ := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "track", "--verbose", "/repo")
	require.NoError(t, err)
	require.True(t, res.Context.Flags().Has("verbose"))
	require.Equal(t, "/repo", ValueOr(res.Context, "path", ""))

	res, err = dispatchNow(t, m, sender("amy"), "track", "--remote", "origin", "/repo", "-v")
	require.NoError(t, err)
	require.Equal(t, "origin", res.Context.Flags().String("remote", ""))
	require.True(t, res.Context.Flags().Has("verbose"))
	require.Equal(t, "/repo", ValueOr(res.Context, "path", ""))
}

func TestDispatch_UnknownFlag(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "--loud")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
	require.Contains(t, err.Error(), "--loud")
}

// An unrecognized flag stays an unknown-flag error even at an executable node
// with no children left to absorb it: the flag spelling in the message beats
// a generic too-many-arguments classification.
func TestDispatch_UnknownFlagAtExecutableLeaf(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "version", "--bogus")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
	require.Contains(t, err.Error(), "--bogus")
}

func TestDispatch_ValueFlagMissingValue(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "--remote")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
	require.Contains(t, err.Error(), "requires a value")

	_, err = dispatchNow(t, m, sender("amy"), "track", "/repo", "--remote", "--verbose")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
}

func TestDispatch_BoolFlagRejectsValue(t *testing.T) {
	m, _ := newTestTree(t)

	_, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "--verbose=yes")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))
	require.Contains(t, err.Error(), "does not take a value")
}

func TestDispatch_NegativeNumberIsNotAFlag(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("seek")).
		Argument(Required("offset", numParser{})).
		Build())

	res, err := dispatchNow(t, m, sender("amy"), "seek", "-5")
	require.NoError(t, err)
	require.Equal(t, -5, ValueOr(res.Context, "offset", 0))
}

func TestDispatch_SiblingCommandFlagRejected(t *testing.T) {
	m := NewManager[*testSender]()
	mustRegister(t, m, NewCommand(Literal[*testSender]("deploy")).
		Literal("fast").
		Flag(NewFlag[*testSender]("force")).
		Build())
	mustRegister(t, m, NewCommand(Literal[*testSender]("deploy")).
		Literal("safe").
		Build())

	// --force is visible on the shared prefix but belongs to "deploy fast"
	// only; resolving "deploy safe" must reject it.
	_, err := dispatchNow(t, m, sender("amy"), "deploy", "--force", "safe")
	require.Error(t, err)
	require.Equal(t, ErrInvalidSyntax, KindOf(err))

	res, err := dispatchNow(t, m, sender("amy"), "deploy", "--force", "fast")
	require.NoError(t, err)
	require.True(t, res.Context.Flags().Has("force"))
}

func TestDispatch_AliasFlagRecordedUnderPrimaryName(t *testing.T) {
	m, _ := newTestTree(t)

	res, err := dispatchNow(t, m, sender("amy"), "track", "/repo", "-v")
	require.NoError(t, err)
	require.Equal(t, []string{"verbose"}, res.Context.Flags().Names())
}
