package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

func TestScoreboardShowsModeStats(t *testing.T) {
	store := openStore(t)
	runs := []storage.RunRecord{
		{GameID: "marathon", Player: "ann", Score: 300, Lines: 20, Level: 3, Rank: "Novice"},
		{GameID: "marathon", Player: "bob", Score: 100, Lines: 10, Level: 2, Rank: "Novice"},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	view := m.View()
	for _, want := range []string{"HIGH SCORES", "ann", "2 games", "best 300", "avg 200", "lines 30"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Modes are sorted by ID, so the next one is rush with no runs yet
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if view := m.View(); !strings.Contains(view, "No scores recorded yet") {
		t.Error("an empty mode should show the empty message")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("Esc should go back to the menu")
	}
}
