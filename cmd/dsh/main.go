package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/footprint-tools/dispatch"
	"github.com/footprint-tools/dispatch/internal/console"
	"github.com/footprint-tools/dispatch/journal"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := extractFlags(args)
	commandWords := extractCommands(args)

	cfg, err := console.LoadConfig(console.ConfigFilePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsh: read config: %v\n", err)
		return 1
	}
	if flags["--debug"] != "" {
		cfg.LogLevel = "debug"
	}
	if path := flags["--journal"]; path != "" {
		cfg.JournalPath = path
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	enableColor := cfg.Color && flags["--no-color"] == "" && term.IsTerminal(int(os.Stdout.Fd()))
	console.InitStyle(enableColor)

	logger, logCloser, err := console.OpenLogger(console.DataDir(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsh: open log: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	var jnl *journal.Journal
	if flags["--no-journal"] == "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dsh: open journal: %v\n", err)
			return 1
		}
		defer jnl.Close()
	}

	sh, err := console.NewShell(cfg, jnl, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsh: %v\n", err)
		return 1
	}

	// One-shot mode: dsh greet bob --shout
	if len(commandWords) > 0 {
		err := console.RunOnce(sh, strings.Join(commandWords, " "), os.Stdout)
		return exitCode(err)
	}

	if interactive {
		if err := console.RunInteractive(sh); err != nil {
			fmt.Fprintf(os.Stderr, "dsh: %v\n", err)
			return 1
		}
		return 0
	}

	if failed := console.RunLines(sh, os.Stdin, os.Stdout); failed > 0 {
		return 1
	}
	return 0
}

// exitCode maps a dispatch error kind to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch dispatch.KindOf(err) {
	case dispatch.ErrNoSuchCommand:
		return 127
	case dispatch.ErrPermissionDenied:
		return 77
	case dispatch.ErrInvalidSyntax, dispatch.ErrArgumentParse, dispatch.ErrTooManyArguments:
		return 2
	default:
		return 1
	}
}

// extractFlags collects shell-level options (not command flags) from args.
// Shell options always start with -- and come before the first command
// word; everything after the first non-flag belongs to the dispatched
// command.
func extractFlags(args []string) map[string]string {
	flags := make(map[string]string)
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			break
		}
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			value = "true"
		}
		flags[name] = value
	}
	return flags
}

// extractCommands returns the args after the leading shell options.
func extractCommands(args []string) []string {
	for i, a := range args {
		if !strings.HasPrefix(a, "--") {
			return args[i:]
		}
	}
	return nil
}
