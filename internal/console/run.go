package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RunInteractive starts the bubbletea program and blocks until the user
// leaves the shell.
func RunInteractive(sh *Shell) error {
	_, err := tea.NewProgram(NewModel(sh)).Run()
	return err
}

// RunLines evaluates r line by line, writing output and errors to w. It is
// the non-TTY mode: pipes, heredocs and scripts. Returns the number of
// lines that failed.
func RunLines(sh *Shell, r io.Reader, w io.Writer) int {
	failed := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		output, err := sh.Eval(context.Background(), line)
		if output != "" {
			fmt.Fprint(w, output)
		}
		if err != nil {
			failed++
			fmt.Fprintln(w, sh.FormatError(line, err))
		}
		if sh.Quit() {
			break
		}
	}
	return failed
}

// RunOnce evaluates a single pre-tokenized command line and writes the
// result to w, returning the dispatch error for exit-code mapping.
func RunOnce(sh *Shell, line string, w io.Writer) error {
	output, err := sh.Eval(context.Background(), line)
	if output != "" {
		fmt.Fprint(w, output)
	}
	if err != nil {
		fmt.Fprintln(w, sh.FormatError(line, err))
	}
	return err
}
