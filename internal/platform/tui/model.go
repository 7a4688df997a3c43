package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

// LocalSaveName is the save slot used for local play.
const LocalSaveName = "local"

// ModelOptions configures a game model beyond the game itself.
type ModelOptions struct {
	Player   string      // Recorded with scores; empty for local play
	SaveName string      // Save slot; empty disables saving
	Resume   bool        // Load the save slot before the first tick
	Embedded bool        // Running inside a session; B returns to the menu
	Logger   *log.Logger // Defaults to a discarding logger
}

// resizer is implemented by games that can follow a terminal resize
// without restarting.
type resizer interface {
	Resize(width, height int)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	opts       ModelOptions
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game, resetting it
// and resuming the save slot when asked.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ModelOptions) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		opts:       opts,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}

	game.Reset(cfg)
	if opts.Resume {
		if err := m.resume(); err != nil {
			logger.Warn("could not resume game", "save", opts.SaveName, "error", err)
		}
	}
	m.gameState = game.State()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case m.opts.Embedded && key.Matches(msg, keys.Back) && (m.gameState.GameOver || m.gameState.Paused):
		m.persist()
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.persist()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	for _, ev := range result.Events {
		m.logger.Debug("game event", "game", m.game.ID(), "event", ev)
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.recordGameOver()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// recordGameOver stores the finished run and drops the save slot, which
// can no longer be resumed.
func (m *Model) recordGameOver() {
	st := m.gameState
	m.logger.Info("game over",
		"game", m.game.ID(),
		"player", m.opts.Player,
		"score", st.Score,
		"lines", st.Lines,
		"rank", st.Rank,
	)
	if m.store == nil {
		return
	}

	if st.Score > 0 {
		_, err := m.store.SaveRun(storage.RunRecord{
			GameID: m.game.ID(),
			Player: m.opts.Player,
			Score:  st.Score,
			Lines:  st.Lines,
			Level:  st.Level,
			Rank:   st.Rank,
		})
		if err != nil {
			m.logger.Error("could not save score", "error", err)
		}
	}
	if m.opts.SaveName != "" {
		if err := m.store.DeleteGame(m.opts.SaveName); err != nil {
			m.logger.Error("could not delete save", "save", m.opts.SaveName, "error", err)
		}
	}
}

// persist saves a running game to the save slot.
func (m *Model) persist() {
	if m.store == nil || m.opts.SaveName == "" || m.gameState.GameOver {
		return
	}
	p, ok := m.game.(registry.Persistent)
	if !ok {
		return
	}

	data, err := p.SaveState()
	if err == nil {
		err = m.store.SaveGame(m.opts.SaveName, m.game.ID(), m.gameState.Score, data)
	}
	if err != nil {
		m.logger.Error("could not save game", "save", m.opts.SaveName, "error", err)
		return
	}
	m.logger.Info("game saved", "save", m.opts.SaveName, "game", m.game.ID())
}

// resume loads the save slot into the game.
func (m *Model) resume() error {
	if m.store == nil || m.opts.SaveName == "" {
		return errors.New("no save storage")
	}
	p, ok := m.game.(registry.Persistent)
	if !ok {
		return fmt.Errorf("game %q cannot be resumed", m.game.ID())
	}

	gameID, data, err := m.store.LoadGame(m.opts.SaveName)
	if err != nil {
		return err
	}
	if gameID != m.game.ID() {
		return fmt.Errorf("save is for %q, not %q", gameID, m.game.ID())
	}
	return p.LoadState(data)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Error("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".blockfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Error("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Error("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ModelOptions) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
