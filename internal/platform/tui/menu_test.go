package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockfall/internal/config"
)

func TestMenuListsModes(t *testing.T) {
	store := openStore(t)
	store.SaveScore("zen", 900)

	m := NewMenuModel(store, testRuntime(), LocalSaveName)
	items := m.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 menu items, got %d", len(items))
	}
	for _, item := range items {
		if item.Resume {
			t.Errorf("no save exists, but %q offers to resume", item.Title)
		}
		if item.GameID == "zen" && item.Best != 900 {
			t.Errorf("zen best = %d, expected 900", item.Best)
		}
	}
	if !strings.Contains(m.View(), "best 900") {
		t.Error("View() should show the best score")
	}
}

func TestMenuOffersContinue(t *testing.T) {
	store := openStore(t)
	if err := store.SaveGame(LocalSaveName, "rush", 40, []byte("data")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	m := NewMenuModel(store, testRuntime(), LocalSaveName)
	first := m.Items()[0]
	if !first.Resume || first.GameID != "rush" {
		t.Fatalf("first item = %+v, expected to continue rush", first)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if cmd == nil {
		t.Error("selecting should quit the menu program")
	}
	if sel := m.Selected(); sel == nil || !sel.Resume || sel.GameID != "rush" {
		t.Errorf("Selected() = %+v, expected to continue rush", sel)
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(nil, testRuntime(), "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	for range 10 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	items := m.Items()
	if sel := m.Selected(); sel == nil || sel.GameID != items[len(items)-1].GameID {
		t.Errorf("Selected() = %+v, expected the last item", sel)
	}

	next, _ = NewMenuModel(nil, testRuntime(), "").Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("Tab should open the scoreboard")
	}
}

func TestDifficultyMenu(t *testing.T) {
	m := NewDifficultyModel("Blockfall (Marathon)", 80, 24)

	// Default cursor is Normal
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := next.(DifficultyModel).Selected()
	if sel == nil || sel.Preset != config.DifficultyNormal || sel.Level != 0 {
		t.Fatalf("Selected() = %+v, expected normal", sel)
	}

	rules := config.DefaultBlockfallConfig()
	sel.Apply(&rules)
	if rules.Difficulty.StartLevel != 5 || !rules.Difficulty.Enabled {
		t.Errorf("normal start level = %d, expected 5", rules.Difficulty.StartLevel)
	}
}

func TestDifficultyMenuFixedLevel(t *testing.T) {
	m := NewDifficultyModel("Blockfall (Zen)", 80, 24)
	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(DifficultyModel)
	}

	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyEnter}) // Fixed level...
	if m.Selected() != nil {
		t.Fatal("Fixed level should open the level list first")
	}
	if !strings.Contains(m.View(), "SELECT LEVEL") {
		t.Error("View() should show the level list")
	}

	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil || sel.Preset != config.DifficultyFixed || sel.Level != 3 {
		t.Fatalf("Selected() = %+v, expected fixed level 3", sel)
	}

	rules := config.DefaultBlockfallConfig()
	sel.Apply(&rules)
	if rules.Difficulty.Enabled || rules.Difficulty.StartLevel != 3 {
		t.Errorf("fixed selection gave %+v", rules.Difficulty)
	}
}
