package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// restParser consumes the remainder of the input.
type restParser struct{}

func (restParser) Parse(_ context.Context, _ *CommandContext[*testSender], in *Input) (string, error) {
	if in.Exhausted() {
		return "", errors.New("expected a value")
	}
	return strings.Join(in.ReadAll(), " "), nil
}

func (restParser) ConsumesAll() bool { return true }

func TestRegister_StructuralValidation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *Command[*testSender]
		wantErr string
	}{
		{
			name:    "empty chain",
			cmd:     &Command[*testSender]{},
			wantErr: "empty component chain",
		},
		{
			name:    "argument first",
			cmd:     NewCommand(Required("name", wordParser{})).Build(),
			wantErr: "first component must be a literal",
		},
		{
			name: "required after optional",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Argument(Optional("a", wordParser{})).
				Argument(Required("b", numParser{})).
				Build(),
			wantErr: "follows an optional",
		},
		{
			name: "literal after optional",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Argument(Optional("a", wordParser{})).
				Literal("sub").
				Build(),
			wantErr: "follows an optional",
		},
		{
			name: "greedy not last",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Argument(Required("text", restParser{})).
				Argument(Required("after", wordParser{})).
				Build(),
			wantErr: "must be the last component",
		},
		{
			name: "flag in positional chain",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Argument(NewFlag[*testSender]("force")).
				Build(),
			wantErr: "flag 'force' attached as a positional component",
		},
		{
			name: "non-flag in flag list",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Flag(Literal[*testSender]("oops")).
				Build(),
			wantErr: "attached as a flag",
		},
		{
			name: "duplicate argument names",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Argument(Required("x", wordParser{})).
				Argument(Required("x", numParser{})).
				Build(),
			wantErr: "duplicate argument name",
		},
		{
			name: "duplicate flag names",
			cmd: NewCommand(Literal[*testSender]("cmd")).
				Flag(NewFlag[*testSender]("force")).
				Flag(NewFlag[*testSender]("force", "f")).
				Build(),
			wantErr: "duplicate flag name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager[*testSender]()
			err := m.Register(tt.cmd)
			require.Error(t, err)
			require.Equal(t, ErrInvalidCommand, KindOf(err))
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegister_NilCommand(t *testing.T) {
	m := NewManager[*testSender]()
	err := m.Register(nil)
	require.Error(t, err)
	require.Equal(t, ErrInvalidCommand, KindOf(err))
}

func TestCommand_Accessors(t *testing.T) {
	cmd := NewCommand(Literal[*testSender]("track", "t")).
		Literal("remote").
		Argument(Required("name", wordParser{})).
		Flag(NewFlag[*testSender]("verbose", "v").WithDescription("noisy output")).
		Permission("track.remote").
		Description("track a remote").
		Build()

	require.Equal(t, "track", cmd.RootName())
	require.Equal(t, []string{"track", "remote", "name"}, cmd.PathNames())
	require.Equal(t, "track.remote", cmd.Permission())
	require.Equal(t, "track a remote", cmd.Description())
	require.Nil(t, cmd.Handler())

	comps := cmd.Components()
	require.Len(t, comps, 3)
	require.Equal(t, KindLiteral, comps[0].Kind())
	require.Equal(t, []string{"t"}, comps[0].Aliases())
	require.Equal(t, KindArgument, comps[2].Kind())
	require.True(t, comps[2].IsRequired())

	flags := cmd.Flags()
	require.Len(t, flags, 1)
	require.Equal(t, "verbose", flags[0].Name())
	require.Equal(t, "noisy output", flags[0].Description())
	require.False(t, flags[0].TakesValue())
}

func TestComponent_ContractIdentity(t *testing.T) {
	a := Required("x", wordParser{})
	b := Required("y", wordParser{})
	c := Required("z", numParser{})

	require.Equal(t, a.Contract(), b.Contract())
	require.NotEqual(t, a.Contract(), c.Contract())
}

func TestBuilder_ReuseProducesIndependentCommands(t *testing.T) {
	b := NewCommand(Literal[*testSender]("base"))
	first := b.Build()
	second := b.Literal("extended").Build()

	require.Len(t, first.Components(), 1)
	require.Len(t, second.Components(), 2)
}
