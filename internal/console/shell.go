package console

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/footprint-tools/dispatch"
	"github.com/footprint-tools/dispatch/journal"
)

// Shell ties a dispatch.Manager to the journal, the logger and the active
// session. Both the interactive model and the line mode evaluate through
// it, one line at a time.
type Shell struct {
	Manager *dispatch.Manager[*Session]
	Journal *journal.Journal
	Session *Session
	Prompt  string

	logger *log.Logger
	out    strings.Builder
	quit   bool
}

// NewShell builds the shell and registers the demo command set. jnl and
// logger may be nil; the shell then runs without history or logging.
func NewShell(cfg Config, jnl *journal.Journal, logger *log.Logger) (*Shell, error) {
	sh := &Shell{
		Journal: jnl,
		Session: NewSession(),
		Prompt:  cfg.Prompt,
		logger:  logger,
	}
	sh.Manager = dispatch.NewManager[*Session](
		dispatch.WithPermissionChecker[*Session](CheckPermission),
	)
	if err := sh.registerCommands(); err != nil {
		return nil, err
	}
	return sh, nil
}

// Quit reports whether a handler asked the shell to stop.
func (sh *Shell) Quit() bool { return sh.quit }

// printf collects handler output for the line being evaluated.
func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(&sh.out, format, args...)
	sh.out.WriteByte('\n')
}

// Eval dispatches one line and returns the handler output. A dispatch
// failure comes back as the error, already classified; the output may still
// be non-empty when the handler wrote before failing. Every evaluation is
// recorded in the journal when one is attached.
func (sh *Shell) Eval(ctx context.Context, line string) (string, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return "", nil
	}

	sh.out.Reset()
	started := time.Now()
	res, err := sh.Manager.Dispatch(ctx, sh.Session, tokens).Wait(ctx)
	sh.record(line, res, err, started)

	if sh.logger != nil {
		if err != nil {
			sh.logger.Warn("dispatch failed", "input", line, "kind", dispatch.KindOf(err).String())
		} else {
			sh.logger.Debug("dispatch ok", "input", line, "path", strings.Join(res.Context.Path(), " "))
		}
	}
	return sh.out.String(), err
}

// record writes the journal entry for one evaluation.
func (sh *Shell) record(line string, res *dispatch.ExecutionResult[*Session], err error, started time.Time) {
	if sh.Journal == nil {
		return
	}

	entry := journal.Entry{
		Invocation: uuid.New(),
		Sender:     sh.Session.Name,
		Input:      line,
		StartedAt:  started.UTC(),
		Duration:   time.Since(started),
	}
	entry.Outcome, entry.ErrorText = journal.Classify(err)
	if res != nil {
		entry.Invocation = res.Context.InvocationID()
		entry.Path = strings.Join(res.Context.Path(), " ")
	} else if derr, ok := err.(*dispatch.Error); ok {
		entry.Path = strings.Join(derr.Path, " ")
	}

	if jerr := sh.Journal.Record(entry); jerr != nil && sh.logger != nil {
		sh.logger.Error("journal record failed", "err", jerr)
	}
}

// Suggest computes ranked completion candidates for the line as typed.
// Candidates extending the final partial token come first; everything else
// keeps the engine's registration order.
func (sh *Shell) Suggest(ctx context.Context, line string) ([]dispatch.Suggestion, error) {
	tokens := SuggestTokens(line)
	sugs, err := sh.Manager.Suggest(ctx, sh.Session, tokens).Wait(ctx)
	if err != nil {
		return nil, err
	}
	partial := tokens[len(tokens)-1]
	rankSuggestions(partial, sugs)
	return sugs, nil
}

// rankSuggestions stable-sorts prefix matches of the partial ahead of
// non-prefix candidates (typed-value providers may suggest replacements
// that do not extend the typed text).
func rankSuggestions(partial string, sugs []dispatch.Suggestion) {
	if partial == "" {
		return
	}
	lower := strings.ToLower(partial)
	sort.SliceStable(sugs, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(sugs[i].Value), lower)
		pj := strings.HasPrefix(strings.ToLower(sugs[j].Value), lower)
		return pi && !pj
	})
}

// FormatError renders a dispatch error for display, with a did-you-mean
// hint when the first token of line matched no root command.
func (sh *Shell) FormatError(line string, err error) string {
	msg := styleError(err.Error())

	derr, ok := err.(*dispatch.Error)
	if !ok || derr.Kind != dispatch.ErrNoSuchCommand || len(derr.Path) > 0 {
		return msg
	}

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return msg
	}
	similar := similarNames(tokens[0], sh.rootNames(), 3)
	if len(similar) == 0 {
		return msg
	}
	return msg + "\n" + styleMuted("did you mean: "+strings.Join(similar, ", ")+"?")
}

// rootNames lists the primary names and aliases of every root command.
func (sh *Shell) rootNames() []string {
	var names []string
	for _, node := range sh.Manager.RootNodes() {
		comp := node.Component()
		names = append(names, comp.Name())
		names = append(names, comp.Aliases()...)
	}
	return names
}
