// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels an interactive prompt
// with esc or ctrl+c. The binary treats it as a silent non-zero exit.
var ErrAborted = errors.New("prompt aborted")

var promptLabelStyle = lipgloss.NewStyle().Bold(true)

// promptModel is the Bubble Tea model for a single-line prompt. It is
// used for every interactive input of the CLI; secret inputs use masked
// echo so passwords never appear on screen.
type promptModel struct {
	label   string
	input   textinput.Model
	done    bool
	aborted bool
}

func newPromptModel(label string, secret bool) promptModel {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40
	input.Focus()
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '*'
	}

	return promptModel{label: label, input: input}
}

// Init implements [tea.Model].
func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. enter submits, esc and ctrl+c abort;
// everything else is forwarded to the input widget.
func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return fmt.Sprintf("%s %s\n", promptLabelStyle.Render(m.label+":"), m.input.View())
}

// prompt runs an interactive single-line prompt and returns the entered
// value.
func prompt(label string, secret bool) (string, error) {
	final, err := tea.NewProgram(newPromptModel(label, secret)).Run()
	if err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.aborted {
		return "", ErrAborted
	}
	return m.input.Value(), nil
}

// promptPassword asks for a hidden value under the given label.
func promptPassword(label string) (string, error) {
	return prompt(label, true)
}
