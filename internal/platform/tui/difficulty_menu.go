package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/engine"
)

// DifficultySelection holds the user's choice from the difficulty menu.
type DifficultySelection struct {
	Preset config.DifficultyPreset
	Level  int // 0 = preset's start level, 1-30 = fixed level
}

// Apply adjusts rules for the selection.
func (s DifficultySelection) Apply(rules *config.BlockfallConfig) {
	config.ApplyBlockfallPreset(rules, s.Preset)
	if s.Level > 0 {
		rules.Difficulty.StartLevel = s.Level
	}
}

// difficultyOptions lists the presets in menu order. The last entry opens
// the level list.
var difficultyOptions = []struct {
	preset config.DifficultyPreset
	label  string
}{
	{config.DifficultyEasy, "Easy (level 1, slow lock)"},
	{config.DifficultyNormal, "Normal (level 5)"},
	{config.DifficultyHard, "Hard (level 10, quick lock)"},
	{config.DifficultyFixed, "Fixed level..."},
}

// DifficultyModel lets users choose a difficulty preset or a fixed level.
type DifficultyModel struct {
	title         string
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     DifficultySelection
	choosing      bool
	quitting      bool
	back          bool
}

// NewDifficultyModel creates a new difficulty selection model.
func NewDifficultyModel(title string, width, height int) DifficultyModel {
	return DifficultyModel{
		title:     title,
		cursor:    1, // Normal
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m DifficultyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DifficultyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m DifficultyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inLevelSelect {
		return m.handleLevelSelectKey(action)
	}
	return m.handlePresetKey(action)
}

func (m DifficultyModel) handlePresetKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(difficultyOptions)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		opt := difficultyOptions[m.cursor]
		if opt.preset == config.DifficultyFixed {
			m.inLevelSelect = true
			m.levelCursor = 0
			return m, nil
		}
		m.choosing = false
		m.selection = DifficultySelection{Preset: opt.preset}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m DifficultyModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < engine.MaxLevel-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = DifficultySelection{
			Preset: config.DifficultyFixed,
			Level:  m.levelCursor + 1, // 1-indexed
		}
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

// View renders the preset or level selection.
func (m DifficultyModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewPresetSelect()
}

func (m DifficultyModel) viewPresetSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(strings.ToUpper(m.title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, opt := range difficultyOptions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+opt.label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// viewLevelSelect shows a window of levels around the cursor so the list
// fits short terminals.
func (m DifficultyModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	visible := max(3, min(engine.MaxLevel, m.height-8))
	first := max(0, min(m.levelCursor-visible/2, engine.MaxLevel-visible))
	for i := first; i < first+visible; i++ {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}
		level := i + 1
		line := fmt.Sprintf("%sLevel %2d  drop %4dms", cursor, level, engine.LevelInterval(level).Milliseconds())
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m DifficultyModel) Selected() *DifficultySelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m DifficultyModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m DifficultyModel) WantsBack() bool {
	return m.back
}

// RunDifficultySelector runs the difficulty selection and returns the selection.
func RunDifficultySelector(title string, cfg core.RuntimeConfig) (*DifficultySelection, core.RuntimeConfig, error) {
	model := NewDifficultyModel(title, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(DifficultyModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
