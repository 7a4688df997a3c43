// Package blockfall adapts the falling-block engine to the platform: it
// registers the playable modes, maps platform actions to engine intents,
// renders into a core.Screen and saves games for later resumption.
package blockfall

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/economy"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/engine"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
)

// Mode selects a rule variant.
type Mode string

const (
	ModeMarathon Mode = "marathon"
	ModeZen      Mode = "zen"
	ModeRush     Mode = "rush"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeMarathon, ModeZen, ModeRush}

// bannerSeconds is how long an event notice stays on screen.
const bannerSeconds = 2

// Game implements registry.Game around an engine.Engine.
type Game struct {
	mode        Mode
	rules       config.BlockfallConfig
	progression *config.LevelProgression
	eng         *engine.Engine

	// Screen dimensions
	screenW int
	screenH int

	tickRate int
	dt       time.Duration

	paused      bool
	tooSmall    bool
	banner      string
	bannerTicks int
}

// New creates a game of the given mode. The mode adjusts a copy of rules.
func New(mode Mode, rules config.BlockfallConfig) *Game {
	rules = ApplyMode(mode, rules)
	g := &Game{
		mode:        mode,
		rules:       rules,
		progression: config.NewLevelProgression(rules.Difficulty),
	}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	for _, m := range Modes {
		registry.Register(string(m), func(rules config.BlockfallConfig) registry.Game {
			return New(m, rules)
		})
	}
}

// ApplyMode returns rules adjusted for a mode. Marathon uses them as loaded.
func ApplyMode(mode Mode, rules config.BlockfallConfig) config.BlockfallConfig {
	switch mode {
	case ModeZen:
		rules.Difficulty.Enabled = false
		rules.Fever.LinesToTrigger = 0
		rules.Engine.LockDelayMs = max(rules.Engine.LockDelayMs, 1000)
	case ModeRush:
		rules.Difficulty.Enabled = true
		rules.Difficulty.Progression.Type = "lines"
		rules.Difficulty.Progression.LinesPerLevel = 5
		rules.Fever.LinesToTrigger = 10
	}
	return rules
}

// EngineConfig converts loaded rules into engine rules.
func EngineConfig(rules config.BlockfallConfig) engine.Config {
	cfg := engine.DefaultConfig()

	cfg.LockDelay = time.Duration(rules.Engine.LockDelayMs) * time.Millisecond
	cfg.MaxLockResets = rules.Engine.MaxLockResets
	cfg.Lookahead = rules.Engine.Lookahead

	prog := config.NewLevelProgression(rules.Difficulty)
	cfg.StartLevel = prog.StartLevel()
	cfg.LinesPerLevel = prog.LinesPerLevel()

	cfg.LineScores = [5]int{}
	copy(cfg.LineScores[:], rules.Scoring.LineScores)
	cfg.ComboBonus = rules.Scoring.ComboBonus

	cfg.FeverLines = rules.Fever.LinesToTrigger
	cfg.FeverDuration = time.Duration(rules.Fever.DurationMs) * time.Millisecond
	cfg.FeverMultiplier = rules.Fever.Multiplier

	p := rules.Points
	cfg.Points = economy.Rules{
		Placement:      p.Placement,
		SoftDropRate:   p.SoftDropRate,
		HardDropRate:   p.HardDropRate,
		AchievementMin: p.AchievementMin,
		AchievementMax: p.AchievementMax,
		HoldCost:       p.HoldCost,
		ClearRowCost:   p.ClearRowCost,
		ExchangeCosts:  append([]int(nil), p.ExchangeCosts...),
		RankScoreBonus: p.RankScoreBonus,
		RankPointBonus: p.RankPointBonus,
	}

	if len(rules.Ranks) > 0 {
		names := make([]string, len(rules.Ranks))
		thresholds := make([]int, len(rules.Ranks))
		for i, r := range rules.Ranks {
			names[i] = r.Name
			thresholds[i] = r.Threshold
		}
		cfg.Ladder = economy.NewLadder(names, thresholds)
	}
	return cfg
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeZen:
		return "Blockfall (Zen)"
	case ModeRush:
		return "Blockfall (Rush)"
	default:
		return "Blockfall (Marathon)"
	}
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.dt = time.Second / time.Duration(g.tickRate)

	g.eng = engine.New(EngineConfig(g.rules), cfg.Seed)
	g.paused = false
	g.banner = ""
	g.bannerTicks = 0

	g.checkScreenSize()
}

// Resize adapts the layout to a new terminal size without restarting.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < layoutW || g.screenH < layoutH
}

// Engine exposes the underlying engine to hosts that drive it directly.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Snapshot returns the engine snapshot for determinism checks.
func (g *Game) Snapshot() engine.Snapshot {
	return g.eng.Snapshot()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.bannerTicks > 0 {
		g.bannerTicks--
		if g.bannerTicks == 0 {
			g.banner = ""
		}
	}

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.eng.GameOver() {
		g.paused = !g.paused
	}
	if g.paused || g.eng.GameOver() {
		return core.StepResult{State: g.State()}
	}

	g.applyActions(in)

	out := g.eng.Tick(g.dt)
	events := g.describe(out)
	if len(events) > 0 {
		g.banner = events[len(events)-1]
		g.bannerTicks = bannerSeconds * g.tickRate
	}

	return core.StepResult{State: g.State(), Events: events}
}

// applyActions feeds one frame of input to the engine. Hold and spend
// actions go first so movement applies to the piece they produce; a hard
// drop goes last.
func (g *Game) applyActions(in core.InputFrame) {
	if in.Has(core.ActionHold1) {
		g.eng.ApplyInput(engine.Hold{Slot: 0})
	}
	if in.Has(core.ActionHold2) {
		g.eng.ApplyInput(engine.Hold{Slot: 1})
	}
	if in.Has(core.ActionExchange) {
		g.eng.ApplyInput(engine.Exchange{})
	}
	if in.Has(core.ActionClearRow) {
		g.eng.ApplyInput(engine.ClearBottomRow{})
	}

	for range in.Count(core.ActionRotateCW) {
		g.eng.ApplyInput(engine.Rotate{Clockwise: true})
	}
	for range in.Count(core.ActionRotateCCW) {
		g.eng.ApplyInput(engine.Rotate{Clockwise: false})
	}
	for range in.Count(core.ActionLeft) {
		g.eng.ApplyInput(engine.Move{DX: -1})
	}
	for range in.Count(core.ActionRight) {
		g.eng.ApplyInput(engine.Move{DX: 1})
	}
	for range in.Count(core.ActionSoftDrop) {
		g.eng.ApplyInput(engine.Move{DY: 1})
	}

	if in.Has(core.ActionHardDrop) {
		g.eng.ApplyInput(engine.HardDrop{})
	}
}

// describe turns a tick outcome into short notices.
func (g *Game) describe(out engine.TickOutcome) []string {
	var events []string
	if out.Spin != nil {
		events = append(events, out.Spin.Label())
	} else if n := len(out.ClearedRows); n >= 4 {
		events = append(events, "Tetris!")
	}
	if out.Promotion != nil {
		events = append(events, fmt.Sprintf("Rank up: %s", out.Promotion.To.Name))
	}
	if out.LevelUp {
		events = append(events, fmt.Sprintf("Level %d", g.eng.Level()))
	}
	if out.FeverStarted {
		events = append(events, "FEVER!")
	}
	if out.FeverEnded {
		events = append(events, "Fever over")
	}
	if out.GameOver {
		events = append(events, "Game over")
	}
	return events
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := g.eng.Score()
	return core.GameState{
		Score:    score,
		Lines:    g.eng.Lines(),
		Level:    g.eng.Level(),
		Rank:     g.eng.Config().Ladder.ForScore(score).Name,
		GameOver: g.eng.GameOver(),
		Paused:   g.paused || g.tooSmall,
	}
}

// SaveState encodes the running game.
func (g *Game) SaveState() ([]byte, error) {
	return EncodeSnapshot(g.mode, g.eng.Snapshot())
}

// LoadState resumes a game saved by SaveState for the same mode.
func (g *Game) LoadState(data []byte) error {
	mode, snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if mode != g.mode {
		return fmt.Errorf("blockfall: save is for mode %q, not %q", mode, g.mode)
	}
	if err := g.eng.Restore(snap); err != nil {
		return fmt.Errorf("blockfall: restore save: %w", err)
	}
	g.paused = false
	g.banner = ""
	g.bannerTicks = 0
	return nil
}
