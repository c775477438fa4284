// Package tui implements the full-screen assistant session.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/command"
)

// Lines reserved below the transcript: separator, input, help bar.
const chromeHeight = 3

// Dispatcher executes one input line.
type Dispatcher interface {
	Dispatch(line string) (command.Result, error)
}

// entryKind selects how a transcript line is styled.
type entryKind int

const (
	entryGreeting entryKind = iota
	entryEcho
	entryOutput
	entryError
)

type entry struct {
	kind entryKind
	text string
}

// Model is the Bubble Tea model for an assistant session.
// Commands run inside Update, so the dispatcher is only touched from the
// program's event loop.
type Model struct {
	dispatcher Dispatcher
	log        *zap.Logger
	prompt     string

	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	transcript []entry
	history    []string
	historyIdx int // len(history) when not browsing.

	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithPrompt sets the input prompt.
func WithPrompt(p string) Option {
	return func(m *Model) { m.prompt = p }
}

// WithGreeting adds a first transcript line.
func WithGreeting(g string) Option {
	return func(m *Model) {
		if g != "" {
			m.transcript = append(m.transcript, entry{kind: entryGreeting, text: g})
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// NewModel creates a Model that sends submitted lines to d.
func NewModel(d Dispatcher, opts ...Option) Model {
	m := Model{
		dispatcher: d,
		log:        zap.NewNop(),
		prompt:     "> ",
		viewport:   viewport.New(80, 20),
		help:       help.New(),
		keys:       defaultKeyMap(),
		width:      80,
		height:     20 + chromeHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.input = textinput.New()
	m.input.Prompt = promptStyle.Render(m.prompt)
	m.input.Placeholder = "help"
	m.input.Focus()

	m.refresh()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		vpHeight := msg.Height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.viewport.Height = vpHeight
		m.input.Width = msg.Width - len(m.prompt) - 1
		if m.input.Width < 0 {
			m.input.Width = 0
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Prev):
		if m.historyIdx > 0 {
			m.historyIdx--
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.historyIdx < len(m.history) {
			m.historyIdx++
		}
		if m.historyIdx == len(m.history) {
			m.input.SetValue("")
		} else {
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the current input line and records the result.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	m.transcript = append(m.transcript, entry{kind: entryEcho, text: m.prompt + line})

	res, err := m.dispatcher.Dispatch(line)
	if err != nil {
		m.log.Debug("command failed", zap.String("line", line), zap.Error(err))
		m.transcript = append(m.transcript, entry{kind: entryError, text: command.Describe(err)})
		m.refresh()
		return m, nil
	}
	if res.Output != "" {
		m.transcript = append(m.transcript, entry{kind: entryOutput, text: res.Output})
	}
	m.refresh()

	if res.Exit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	lines := make([]string, len(m.transcript))
	for i, e := range m.transcript {
		lines[i] = renderEntry(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func renderEntry(e entry) string {
	switch e.kind {
	case entryGreeting:
		return greetingStyle.Render(e.text)
	case entryEcho:
		return echoStyle.Render(e.text)
	case entryError:
		return errorStyle.Render(e.text)
	default:
		return e.text
	}
}

// Transcript returns the plain text of the session so far, one entry per line.
func (m Model) Transcript() string {
	lines := make([]string, len(m.transcript))
	for i, e := range m.transcript {
		lines[i] = e.text
	}
	return strings.Join(lines, "\n")
}

// View renders the transcript, input line, and help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
