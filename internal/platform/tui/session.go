package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

// SessionSaveName returns the save slot for an SSH user.
func SessionSaveName(username string) string {
	return "ssh:" + username
}

// sessionScreen is the screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenDifficulty
	screenScoreboard
	screenGame
)

// SessionModel runs a whole remote session in one program:
// menu -> difficulty -> game -> menu, with the scoreboard one key away.
// Sub-screens that quit their own program locally only signal here; the
// session decides where to go next.
type SessionModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	rules    config.BlockfallConfig
	username string
	logger   *log.Logger
	now      func() time.Time

	screen     sessionScreen
	menu       MenuModel
	difficulty DifficultyModel
	scoreboard ScoreboardModel
	gameModel  *Model
	pending    *MenuItem // mode waiting for a difficulty
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, rules config.BlockfallConfig, username string, logger *log.Logger) SessionModel {
	return SessionModel{
		store:    store,
		config:   cfg,
		rules:    rules,
		username: username,
		logger:   logger,
		now:      time.Now,
		menu:     NewMenuModel(store, cfg, SessionSaveName(username)),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenDifficulty:
		return m.updateDifficulty(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu rebuilds the menu so Continue entries and best scores are fresh.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.gameModel = nil
	m.pending = nil
	m.menu = NewMenuModel(m.store, m.config, SessionSaveName(m.username))
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()

	case m.menu.WantsScoreboard():
		m.screen = screenScoreboard
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		selected := *m.menu.Selected()
		if selected.Resume {
			return m.startGame(selected, m.rules)
		}
		m.pending = &selected
		m.screen = screenDifficulty
		m.difficulty = NewDifficultyModel(selected.Title, m.config.ScreenW, m.config.ScreenH)
		return m, m.difficulty.Init()
	}

	return m, cmd
}

// updateDifficulty handles updates while choosing a difficulty.
func (m SessionModel) updateDifficulty(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.difficulty.Update(msg)
	if d, ok := newModel.(DifficultyModel); ok {
		m.difficulty = d
	}

	switch {
	case m.difficulty.IsQuitting():
		return m.quit()
	case m.difficulty.WantsBack():
		return m.toMenu()
	case m.difficulty.Selected() != nil && m.pending != nil:
		rules := m.rules
		m.difficulty.Selected().Apply(&rules)
		return m.startGame(*m.pending, rules)
	}

	return m, cmd
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		return m.quit()
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}

	return m, cmd
}

// startGame creates the mode with rules and switches to it.
func (m SessionModel) startGame(item MenuItem, rules config.BlockfallConfig) (tea.Model, tea.Cmd) {
	game, err := registry.Create(item.GameID, rules)
	if err != nil {
		// The menu only lists registered modes.
		m.logger.Error("cannot create game", "game", item.GameID, "error", err)
		return m.toMenu()
	}

	m.config.Seed = m.now().UnixNano()
	gameModel := NewModel(game, m.store, m.config, ModelOptions{
		Player:   m.username,
		SaveName: SessionSaveName(m.username),
		Resume:   item.Resume,
		Embedded: true,
		Logger:   m.logger.With("user", m.username),
	})
	m.gameModel = &gameModel
	m.pending = nil
	m.screen = screenGame

	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m.toMenu()
	}
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// Screen reports which screen the session is on, for tests.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenDifficulty:
		return "difficulty"
	case screenScoreboard:
		return "scoreboard"
	case screenGame:
		return "game"
	default:
		return "menu"
	}
}

// Game returns the running game model, or nil outside a game.
func (m SessionModel) Game() *Model {
	return m.gameModel
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenDifficulty:
		return m.difficulty.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	}
	return m.menu.View()
}
