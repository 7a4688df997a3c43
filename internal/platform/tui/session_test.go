package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockfall/internal/config"
)

func sendSession(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	session, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SessionModel", next)
	}
	return session
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	m := NewSessionModel(store, testRuntime(), config.DefaultBlockfallConfig(), "ann", log.New(io.Discard))

	steps := []struct {
		msg    tea.Msg
		screen string
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, "scoreboard"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "menu"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "difficulty"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "menu"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "difficulty"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "game"},
	}
	for i, step := range steps {
		m = sendSession(t, m, step.msg)
		if got := m.Screen(); got != step.screen {
			t.Fatalf("step %d: Screen() = %q, expected %q", i, got, step.screen)
		}
	}

	if m.Game() == nil {
		t.Fatal("Game() should return the running game")
	}
	if level := m.Game().State().Level; level != 5 {
		t.Errorf("normal difficulty level = %d, expected 5", level)
	}

	// Leaving a paused game saves it to the user's slot
	m = sendSession(t, m, runeKey("p"))
	m = sendSession(t, m, TickMsg{})
	m = sendSession(t, m, runeKey("b"))
	if got := m.Screen(); got != "menu" {
		t.Fatalf("Screen() = %q after leaving the game, expected menu", got)
	}
	if m.Game() != nil {
		t.Error("Game() should be nil back in the menu")
	}
	if gameID, _, err := store.LoadGame(SessionSaveName("ann")); err != nil || gameID != "marathon" {
		t.Errorf("LoadGame() = %q, %v, expected a marathon save", gameID, err)
	}
	if first := m.menu.Items()[0]; !first.Resume {
		t.Errorf("first menu item = %+v, expected Continue", first)
	}

	// Continue skips the difficulty screen
	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Screen(); got != "game" {
		t.Errorf("Screen() = %q after Continue, expected game", got)
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(nil, testRuntime(), config.DefaultBlockfallConfig(), "bob", log.New(io.Discard))

	next, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Error("quitting should stop the program")
	}
	if v := next.(SessionModel).View(); v != "" {
		t.Errorf("View() = %q after quit, expected empty", v)
	}
}

func TestSessionSaveName(t *testing.T) {
	if got := SessionSaveName("ann"); got != "ssh:ann" {
		t.Errorf("SessionSaveName() = %q, expected %q", got, "ssh:ann")
	}
}
