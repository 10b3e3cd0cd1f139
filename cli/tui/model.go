// Package tui provides an interactive terminal chat screen for a palaver
// conversation using the Bubble Tea framework.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Advancer runs one conversation turn. *conversation.Orchestrator satisfies it.
type Advancer interface {
	Advance(ctx context.Context, userContent string) (string, error)
}

type speaker int

const (
	speakerUser speaker = iota
	speakerBot
	speakerError
)

type entry struct {
	speaker speaker
	text    string
}

// replyMsg carries the outcome of one Advance call back into Update.
type replyMsg struct {
	content string
	err     error
}

// Model is the root Bubble Tea model for the chat screen.
type Model struct {
	conv     Advancer
	scheme   string
	entries  []entry
	busy     bool
	input    textarea.Model
	history  viewport.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer
	width    int
	height   int
}

// New creates a chat Model driving conv. scheme is shown in the header.
func New(conv Advancer, scheme string) *Model {
	input := textarea.New()
	input.Placeholder = "Type a message, ctrl+s to send"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = subtleStyle

	m := &Model{
		conv:    conv,
		scheme:  scheme,
		input:   input,
		history: viewport.New(80, 16),
		spinner: sp,
		width:   80,
		height:  24,
	}
	m.resize()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{speaker: speakerError, text: msg.err.Error()})
		} else {
			m.entries = append(m.entries, entry{speaker: speakerBot, text: msg.content})
		}
		m.refreshHistory()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matchesBinding(msg, keys.Quit):
		return m, tea.Quit

	case matchesBinding(msg, keys.Send):
		return m.send()

	case matchesBinding(msg, keys.ScrollUp), matchesBinding(msg, keys.ScrollDown):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send starts a turn with the current input. Only one turn runs at a time,
// so the conversation is never touched from two goroutines.
func (m *Model) send() (tea.Model, tea.Cmd) {
	content := m.input.Value()
	if m.busy || content == "" {
		return m, nil
	}
	m.busy = true
	m.input.Reset()
	m.entries = append(m.entries, entry{speaker: speakerUser, text: content})
	m.refreshHistory()

	conv := m.conv
	advance := func() tea.Msg {
		reply, err := conv.Advance(context.Background(), content)
		return replyMsg{content: reply, err: err}
	}
	return m, tea.Batch(advance, m.spinner.Tick)
}

func (m *Model) resize() {
	m.input.SetWidth(m.width)
	m.input.SetHeight(inputHeight)
	h := m.height - inputHeight - chromeHeight
	if h < 1 {
		h = 1
	}
	m.history.Width = m.width
	m.history.Height = h

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(m.width-4),
	)
	if err == nil {
		m.markdown = r
	}
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	m.history.SetContent(renderHistory(m))
	m.history.GotoBottom()
}

// matchesBinding checks if a key message matches a key binding.
func matchesBinding(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
