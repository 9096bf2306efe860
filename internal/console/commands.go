package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/footprint-tools/dispatch"
	"github.com/footprint-tools/dispatch/journal"
	"github.com/footprint-tools/dispatch/parsers"
)

// Version is the demo shell version reported by the version command.
const Version = "0.3.0"

// maxWait caps the wait command so a typo cannot hang the shell.
const maxWait = 10 * time.Second

// registerCommands builds the demo command set. It touches every library
// feature: literal aliases, required/optional/default arguments over the
// standard parsers, boolean and value flags, permission gates, suggestion
// overrides, context-dependent suggestions, root deletion and the journal.
func (sh *Shell) registerCommands() error {
	commands := []*dispatch.Command[*Session]{
		sh.versionCommand(),
		sh.helpCommand(),
		sh.echoCommand(),
		sh.greetCommand(),
		sh.rollCommand(),
		sh.calcCommand(),
		sh.waitCommand(),
		sh.configCommand(),
		sh.historyCommand(),
		sh.inspectCommand(),
		sh.suCommand(),
		sh.adminShutdownCommand(),
		sh.unregisterCommand(),
		sh.exitCommand(),
	}
	for _, cmd := range commands {
		if err := sh.Manager.Register(cmd); err != nil {
			return fmt.Errorf("register %s: %w", cmd.RootName(), err)
		}
	}
	return nil
}

func (sh *Shell) versionCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("version")).
		Description("Show the shell version").
		HandlerFunc(func(_ context.Context, _ *dispatch.CommandContext[*Session]) error {
			sh.printf("dsh %s", Version)
			return nil
		}).
		Build()
}

func (sh *Shell) helpCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("help", "h", "?")).
		Description("List every command with its usage").
		HandlerFunc(func(_ context.Context, _ *dispatch.CommandContext[*Session]) error {
			sh.printf("%s", styleHeader("Commands"))
			for _, cmd := range sh.Manager.KnownCommands() {
				if cmd.Permission() != "" && !CheckPermission(sh.Session, cmd.Permission()) {
					continue
				}
				line := "  " + usageLine(cmd)
				if desc := cmd.Description(); desc != "" {
					line += "  " + styleMuted("— "+desc)
				}
				sh.printf("%s", line)
			}
			return nil
		}).
		Build()
}

// usageLine renders a command as `root sub <required> [optional] --flags`.
func usageLine[C any](cmd *dispatch.Command[C]) string {
	var parts []string
	for _, comp := range cmd.Components() {
		switch comp.Kind() {
		case dispatch.KindLiteral:
			parts = append(parts, comp.Name())
		case dispatch.KindArgument:
			if comp.IsRequired() {
				parts = append(parts, "<"+comp.Name()+">")
			} else {
				parts = append(parts, "["+comp.Name()+"]")
			}
		}
	}
	for _, f := range cmd.Flags() {
		form := "--" + f.Name()
		if f.TakesValue() {
			form += "=<value>"
		}
		parts = append(parts, "["+form+"]")
	}
	return strings.Join(parts, " ")
}

func (sh *Shell) echoCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("echo")).
		Argument(dispatch.Required("text", parsers.Greedy[*Session]())).
		Flag(dispatch.NewFlag[*Session]("upper", "u").WithDescription("uppercase the output")).
		Description("Print the arguments back").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			text := dispatch.ValueOr(cctx, "text", "")
			if cctx.Flags().Has("upper") {
				text = strings.ToUpper(text)
			}
			sh.printf("%s", text)
			return nil
		}).
		Build()
}

func (sh *Shell) greetCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("greet", "hi")).
		Argument(dispatch.Required("name", parsers.String[*Session]())).
		Argument(dispatch.OptionalDefault("greeting", parsers.Enum[*Session]("hello", "howdy", "hey"), "hello")).
		Flag(dispatch.NewFlag[*Session]("shout", "s")).
		Description("Greet someone").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			greeting := dispatch.ValueOr(cctx, "greeting", "hello")
			name := dispatch.ValueOr(cctx, "name", "")
			msg := fmt.Sprintf("%s, %s!", greeting, name)
			if cctx.Flags().Has("shout") {
				msg = strings.ToUpper(msg)
			}
			sh.printf("%s", styleSuccess(msg))
			return nil
		}).
		Build()
}

func (sh *Shell) rollCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("roll")).
		Argument(dispatch.OptionalDefault("sides", parsers.IntBetween[*Session](2, 120), 6)).
		Flag(dispatch.NewFlag[*Session]("times", "t").WithValue().WithDescription("number of dice")).
		Description("Roll dice").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			sides := dispatch.ValueOr(cctx, "sides", 6)
			times := cctx.Flags().Int("times", 1)
			if times < 1 || times > 20 {
				return fmt.Errorf("--times must be between 1 and 20")
			}
			var rolls []string
			for i := 0; i < times; i++ {
				// The invocation id is the entropy source; good enough
				// for demo dice, deterministic enough to stay honest.
				roll := int(cctx.InvocationID()[i%16])%sides + 1
				rolls = append(rolls, fmt.Sprintf("%d", roll))
			}
			sh.printf("d%d: %s", sides, strings.Join(rolls, " "))
			return nil
		}).
		Build()
}

func (sh *Shell) calcCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("calc")).
		Argument(dispatch.Required("op", parsers.Enum[*Session]("add", "sub", "mul", "div"))).
		Argument(dispatch.Required("a", parsers.Float64[*Session]())).
		Argument(dispatch.Required("b", parsers.Float64[*Session]())).
		Description("Arithmetic on two numbers").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			a := dispatch.ValueOr(cctx, "a", 0.0)
			b := dispatch.ValueOr(cctx, "b", 0.0)
			var result float64
			switch dispatch.ValueOr(cctx, "op", "") {
			case "add":
				result = a + b
			case "sub":
				result = a - b
			case "mul":
				result = a * b
			case "div":
				if b == 0 {
					return fmt.Errorf("division by zero")
				}
				result = a / b
			}
			sh.printf("%g", result)
			return nil
		}).
		Build()
}

func (sh *Shell) waitCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("wait")).
		Argument(dispatch.Required("duration", parsers.Duration[*Session]())).
		Description("Sleep for a duration").
		HandlerFunc(func(ctx context.Context, cctx *dispatch.CommandContext[*Session]) error {
			d := dispatch.ValueOr(cctx, "duration", time.Duration(0))
			if d > maxWait {
				return fmt.Errorf("refusing to wait longer than %s", maxWait)
			}
			select {
			case <-time.After(d):
				sh.printf("waited %s", d)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}).
		Build()
}

// configCommand demonstrates context-dependent suggestions: the value
// candidates depend on the key parsed earlier in the same line.
func (sh *Shell) configCommand() *dispatch.Command[*Session] {
	valueSuggestions := dispatch.SuggestionProviderFunc[*Session](
		func(_ context.Context, cctx *dispatch.CommandContext[*Session], partial string) ([]dispatch.Suggestion, error) {
			var candidates []string
			switch dispatch.ValueOr(cctx, "key", "") {
			case "color":
				candidates = []string{"on", "off"}
			case "loglevel":
				candidates = []string{"debug", "info", "warn", "error"}
			}
			var out []dispatch.Suggestion
			for _, v := range candidates {
				if strings.HasPrefix(v, strings.ToLower(partial)) {
					out = append(out, dispatch.Suggestion{Value: v})
				}
			}
			return out, nil
		})

	return dispatch.NewCommand(dispatch.Literal[*Session]("config")).
		Literal("set").
		Argument(dispatch.Required("key", parsers.Enum[*Session]("prompt", "color", "loglevel"))).
		Argument(dispatch.Required[*Session, string]("value", parsers.String[*Session]()).
			WithSuggestions(valueSuggestions)).
		Description("Change a shell setting").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			key := dispatch.ValueOr(cctx, "key", "")
			value := dispatch.ValueOr(cctx, "value", "")
			switch key {
			case "prompt":
				sh.Prompt = value + " "
			case "color":
				InitStyle(value == "on" || value == "true")
			case "loglevel":
				if sh.logger != nil {
					sh.logger.SetLevel(parseLogLevel(value))
				}
			}
			sh.printf("%s = %s", key, value)
			return nil
		}).
		Build()
}

func (sh *Shell) historyCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("history")).
		Argument(dispatch.OptionalDefault("count", parsers.IntBetween[*Session](1, 1000), 10)).
		Flag(dispatch.NewFlag[*Session]("failed").WithDescription("only failed invocations")).
		Description("Show recent invocations").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			if sh.Journal == nil {
				return fmt.Errorf("no journal attached")
			}
			filter := journal.Filter{Limit: dispatch.ValueOr(cctx, "count", 10)}
			entries, err := sh.Journal.List(filter)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if cctx.Flags().Has("failed") && e.Outcome == journal.OutcomeOK {
					continue
				}
				line := fmt.Sprintf("%s  %-18s  %s",
					e.StartedAt.Local().Format("15:04:05"), e.Outcome, e.Input)
				if e.Outcome == journal.OutcomeOK {
					sh.printf("%s", line)
				} else {
					sh.printf("%s", styleMuted(line))
				}
			}
			return nil
		}).
		Build()
}

func (sh *Shell) inspectCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("inspect")).
		Argument(dispatch.Required("invocation", parsers.UUID[*Session]())).
		Description("Show one journal entry by invocation id").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			if sh.Journal == nil {
				return fmt.Errorf("no journal attached")
			}
			id := dispatch.ValueOr(cctx, "invocation", uuid.Nil)
			entries, err := sh.Journal.Tail(500)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.Invocation != id {
					continue
				}
				sh.printf("input:    %s", e.Input)
				sh.printf("path:     %s", e.Path)
				sh.printf("outcome:  %s", e.Outcome)
				if e.ErrorText != "" {
					sh.printf("error:    %s", e.ErrorText)
				}
				sh.printf("started:  %s", e.StartedAt.Local().Format(time.RFC3339))
				sh.printf("duration: %s", e.Duration)
				return nil
			}
			return fmt.Errorf("no journal entry for %s", id)
		}).
		Build()
}

func (sh *Shell) suCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("su")).
		Argument(dispatch.Required("role", parsers.Enum[*Session](RoleUser, RoleAdmin))).
		Description("Switch the session role").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			role := dispatch.ValueOr(cctx, "role", RoleUser)
			sh.Session.Role = role
			sh.printf("role: %s", role)
			return nil
		}).
		Build()
}

func (sh *Shell) adminShutdownCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("admin")).
		Literal("shutdown").
		Flag(dispatch.NewFlag[*Session]("force", "f")).
		Permission("admin.shutdown").
		Description("Stop the shell (admin only)").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			if !cctx.Flags().Has("force") {
				sh.printf("pass --force to confirm")
				return nil
			}
			sh.printf("shutting down")
			sh.quit = true
			return nil
		}).
		Build()
}

// unregisterCommand drives DeleteRoot from inside the shell. Its argument
// suggests the current root names, so the completion list shrinks as roots
// disappear.
func (sh *Shell) unregisterCommand() *dispatch.Command[*Session] {
	rootProvider := dispatch.SuggestionProviderFunc[*Session](
		func(_ context.Context, _ *dispatch.CommandContext[*Session], partial string) ([]dispatch.Suggestion, error) {
			var out []dispatch.Suggestion
			for _, node := range sh.Manager.RootNodes() {
				name := node.Component().Name()
				if strings.HasPrefix(strings.ToLower(name), strings.ToLower(partial)) {
					out = append(out, dispatch.Suggestion{Value: name})
				}
			}
			return out, nil
		})

	return dispatch.NewCommand(dispatch.Literal[*Session]("unregister")).
		Argument(dispatch.Required[*Session, string]("root", parsers.String[*Session]()).
			WithSuggestions(rootProvider)).
		Permission("admin.unregister").
		Description("Remove a root command and its subtree (admin only)").
		HandlerFunc(func(_ context.Context, cctx *dispatch.CommandContext[*Session]) error {
			root := dispatch.ValueOr(cctx, "root", "")
			if err := sh.Manager.DeleteRoot(root); err != nil {
				return err
			}
			sh.printf("unregistered '%s'", root)
			return nil
		}).
		Build()
}

func (sh *Shell) exitCommand() *dispatch.Command[*Session] {
	return dispatch.NewCommand(dispatch.Literal[*Session]("exit", "quit", "q")).
		Description("Leave the shell").
		HandlerFunc(func(_ context.Context, _ *dispatch.CommandContext[*Session]) error {
			sh.quit = true
			return nil
		}).
		Build()
}
