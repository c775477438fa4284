package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/addrbook/internal/addressbook"
	"github.com/smileynet/addrbook/internal/command"
)

// typeLine types line into m and presses enter, returning the updated model and command.
func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	var next tea.Model = m
	for _, r := range line {
		next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

// isQuit reports whether cmd produces tea.QuitMsg.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewModel_Greeting(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()), WithGreeting("Welcome!"))
	if m.Transcript() != "Welcome!" {
		t.Errorf("Transcript() = %q, want %q", m.Transcript(), "Welcome!")
	}

	m = NewModel(command.Default(addressbook.New()), WithGreeting(""))
	if m.Transcript() != "" {
		t.Errorf("empty greeting should add no entry, got %q", m.Transcript())
	}
}

func TestModel_Init_ReturnsBlinkCmd(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()))
	if m.Init() == nil {
		t.Fatal("Init() should return a non-nil Cmd for the cursor")
	}
}

func TestModel_Submit_RunsCommand(t *testing.T) {
	// Given a model over an empty book
	book := addressbook.New()
	m := NewModel(command.Default(book), WithPrompt("$ "))

	// When a command line is submitted
	m, cmd := typeLine(t, m, "add Alice 1234567890")

	// Then the book changes and the transcript shows echo and output
	if isQuit(cmd) {
		t.Fatal("add should not quit")
	}
	if _, ok := book.Find("Alice"); !ok {
		t.Fatal("contact not stored")
	}
	want := "$ add Alice 1234567890\nContact added."
	if m.Transcript() != want {
		t.Errorf("Transcript() = %q, want %q", m.Transcript(), want)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
}

func TestModel_Submit_ErrorIsReported(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()))
	m, _ = typeLine(t, m, "delete Bob")

	if !strings.HasSuffix(m.Transcript(), "error: contact not found") {
		t.Errorf("Transcript() = %q, want error line", m.Transcript())
	}
}

func TestModel_Submit_BlankLineIgnored(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()))
	m, _ = typeLine(t, m, "   ")

	if m.Transcript() != "" {
		t.Errorf("Transcript() = %q, want empty", m.Transcript())
	}
	if len(m.history) != 0 {
		t.Errorf("history len = %d, want 0", len(m.history))
	}
}

func TestModel_Submit_ExitQuits(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()))
	m, cmd := typeLine(t, m, "close")

	if !isQuit(cmd) {
		t.Error("exit command should return tea.Quit")
	}
	if !m.quitting {
		t.Error("model should be quitting")
	}
	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		t.Run(k.String(), func(t *testing.T) {
			m := NewModel(command.Default(addressbook.New()))
			_, cmd := m.Update(k)
			if !isQuit(cmd) {
				t.Errorf("%s should quit", k.String())
			}
		})
	}
}

func TestModel_History(t *testing.T) {
	// Given two submitted commands
	m := NewModel(command.Default(addressbook.New()))
	m, _ = typeLine(t, m, "hello")
	m, _ = typeLine(t, m, "all")

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	// When up is pressed, the most recent command is recalled first
	next, _ := m.Update(up)
	m = next.(Model)
	if m.input.Value() != "all" {
		t.Errorf("after 1 up, input = %q, want %q", m.input.Value(), "all")
	}
	next, _ = m.Update(up)
	m = next.(Model)
	if m.input.Value() != "hello" {
		t.Errorf("after 2 up, input = %q, want %q", m.input.Value(), "hello")
	}
	// And up at the oldest entry stays put
	next, _ = m.Update(up)
	m = next.(Model)
	if m.input.Value() != "hello" {
		t.Errorf("after 3 up, input = %q, want %q", m.input.Value(), "hello")
	}

	// When down is pressed past the newest entry, the input clears
	next, _ = m.Update(down)
	m = next.(Model)
	if m.input.Value() != "all" {
		t.Errorf("after down, input = %q, want %q", m.input.Value(), "all")
	}
	next, _ = m.Update(down)
	m = next.(Model)
	if m.input.Value() != "" {
		t.Errorf("after down past end, input = %q, want empty", m.input.Value())
	}
}

func TestModel_Update_WindowSizeMsg(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := next.(Model)

	if updated.width != 120 {
		t.Errorf("width = %d, want 120", updated.width)
	}
	if updated.viewport.Height != 40-chromeHeight {
		t.Errorf("viewport height = %d, want %d", updated.viewport.Height, 40-chromeHeight)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 1, Height: 1})
	tiny := next.(Model)
	if tiny.viewport.Height < 1 {
		t.Errorf("viewport height = %d, want at least 1", tiny.viewport.Height)
	}
	if tiny.input.Width < 0 {
		t.Errorf("input width = %d, want non-negative", tiny.input.Width)
	}
}

func TestModel_View_ShowsTranscriptAndHelp(t *testing.T) {
	m := NewModel(command.Default(addressbook.New()), WithGreeting("Welcome!"))
	view := m.View()
	for _, want := range []string{"Welcome!", "enter", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

// TestModel_Teatest_Session drives a full session through a running program.
func TestModel_Teatest_Session(t *testing.T) {
	book := addressbook.New()
	m := NewModel(command.Default(book), WithGreeting("Welcome!"))

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	for _, line := range []string{"add Alice 1234567890", "add Bob", "delete Bob", "exit"} {
		tm.Type(line)
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	}

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if !final.quitting {
		t.Error("final model should be quitting")
	}
	if book.Len() != 1 {
		t.Errorf("book Len() = %d, want 1", book.Len())
	}
	for _, want := range []string{"Contact added.", "Contact deleted.", "Good bye!"} {
		if !strings.Contains(final.Transcript(), want) {
			t.Errorf("transcript missing %q:\n%s", want, final.Transcript())
		}
	}
}

func TestIsTerminal_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Error("non-*os.File writer should not be a terminal")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if IsTerminal(f) {
		t.Error("regular file should not be a terminal")
	}
}
