package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/footprint-tools/dispatch"
)

// suggestTimeout bounds one completion pass; providers may block on ctx.
const suggestTimeout = 200 * time.Millisecond

// maxVisibleSuggestions caps the completion row.
const maxVisibleSuggestions = 8

type evalDoneMsg struct {
	line   string
	output string
	err    error
}

type suggestMsg struct {
	forLine     string
	suggestions []dispatch.Suggestion
}

// Model is the interactive shell: a prompt, scrollback, and a completion
// row fed asynchronously by the suggestion engine. One dispatch runs at a
// time; the prompt stays responsive because evaluation happens in a tea
// command, not in Update.
type Model struct {
	shell *Shell
	input textinput.Model

	lines       []string
	suggestions []dispatch.Suggestion
	selected    int
	evaluating  bool
	width       int
	height      int
}

// NewModel builds the interactive model around an assembled shell.
func NewModel(sh *Shell) Model {
	ti := textinput.New()
	ti.Prompt = stylePrompt(sh.Prompt)
	ti.Placeholder = `try "help"`
	ti.CharLimit = 512
	ti.Focus()

	return Model{
		shell:  sh,
		input:  ti,
		lines:  []string{styleMuted("dsh " + Version + " — tab completes, ctrl+c leaves")},
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.shell.Prompt) - 2
		return m, nil

	case evalDoneMsg:
		m.evaluating = false
		m.lines = append(m.lines, stylePrompt(m.shell.Prompt)+msg.line)
		if msg.output != "" {
			m.lines = append(m.lines, strings.Split(strings.TrimRight(msg.output, "\n"), "\n")...)
		}
		if msg.err != nil {
			m.lines = append(m.lines, strings.Split(m.shell.FormatError(msg.line, msg.err), "\n")...)
		}
		if m.shell.Quit() {
			return m, tea.Quit
		}
		m.input.Prompt = stylePrompt(m.shell.Prompt)
		return m, nil

	case suggestMsg:
		// Stale completions for an input that has moved on are dropped.
		if msg.forLine != m.input.Value() {
			return m, nil
		}
		m.suggestions = msg.suggestions
		m.selected = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			line := m.input.Value()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			m.input.Reset()
			m.suggestions = nil
			m.evaluating = true
			return m, m.evalCmd(line)

		case tea.KeyTab:
			if len(m.suggestions) == 0 {
				return m, m.suggestCmd(m.input.Value())
			}
			m.applySuggestion(m.suggestions[m.selected].Value)
			m.selected = (m.selected + 1) % len(m.suggestions)
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.suggestions = nil
		return m, tea.Batch(cmd, m.suggestCmd(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	visible := m.height - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if len(m.lines) > visible {
		start = len(m.lines) - visible
	}
	for _, line := range m.lines[start:] {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.evaluating {
		b.WriteString(styleMuted("…"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.suggestionRow())
	return b.String()
}

// suggestionRow renders the completion candidates, selection highlighted.
func (m Model) suggestionRow() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	shown := m.suggestions
	if len(shown) > maxVisibleSuggestions {
		shown = shown[:maxVisibleSuggestions]
	}
	parts := make([]string, len(shown))
	for i, s := range shown {
		parts[i] = styleSuggestion(s.Value, i == m.selected)
	}
	row := strings.Join(parts, "  ")
	if len(m.suggestions) > len(shown) {
		row += styleMuted(fmt.Sprintf("  +%d more", len(m.suggestions)-len(shown)))
	}
	return row
}

// applySuggestion replaces the final (partial) token of the input with the
// chosen candidate.
func (m *Model) applySuggestion(value string) {
	tokens := SuggestTokens(m.input.Value())
	tokens[len(tokens)-1] = value
	m.input.SetValue(strings.Join(tokens, " "))
	m.input.CursorEnd()
}

func (m Model) evalCmd(line string) tea.Cmd {
	return func() tea.Msg {
		output, err := m.shell.Eval(context.Background(), line)
		return evalDoneMsg{line: line, output: output, err: err}
	}
}

func (m Model) suggestCmd(line string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()
		suggestions, err := m.shell.Suggest(ctx, line)
		if err != nil {
			return suggestMsg{forLine: line}
		}
		return suggestMsg{forLine: line, suggestions: suggestions}
	}
}

var _ tea.Model = Model{}
