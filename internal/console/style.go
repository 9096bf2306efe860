// Package console implements the dsh demo shell: a bubbletea REPL (plus a
// plain line mode for pipes and scripts) over a dispatch.Manager, with a
// demo command set exercising the whole library surface, tab completion fed
// by the suggestion engine, and an invocation journal.
package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	styleEnabled bool

	promptStyle     lipgloss.Style
	errorStyle      lipgloss.Style
	successStyle    lipgloss.Style
	mutedStyle      lipgloss.Style
	headerStyle     lipgloss.Style
	suggestionStyle lipgloss.Style
	selectedStyle   lipgloss.Style
)

// InitStyle initializes the style layer. It respects the NO_COLOR and
// DSH_NO_COLOR conventions regardless of enable. Call once from main before
// any output.
func InitStyle(enable bool) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("DSH_NO_COLOR") != "" {
		styleEnabled = false
		return
	}
	styleEnabled = enable
	if !styleEnabled {
		return
	}

	lipgloss.SetColorProfile(termenv.ANSI256)

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
}

// StyleEnabled reports whether styling is active.
func StyleEnabled() bool { return styleEnabled }

func stylePrompt(text string) string {
	if !styleEnabled {
		return text
	}
	return promptStyle.Render(text)
}

func styleError(text string) string {
	if !styleEnabled {
		return text
	}
	return errorStyle.Render(text)
}

func styleSuccess(text string) string {
	if !styleEnabled {
		return text
	}
	return successStyle.Render(text)
}

func styleMuted(text string) string {
	if !styleEnabled {
		return text
	}
	return mutedStyle.Render(text)
}

func styleHeader(text string) string {
	if !styleEnabled {
		return text
	}
	return headerStyle.Render(text)
}

func styleSuggestion(text string, selected bool) string {
	if !styleEnabled {
		return text
	}
	if selected {
		return selectedStyle.Render(text)
	}
	return suggestionStyle.Render(text)
}
