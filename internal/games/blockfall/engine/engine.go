package engine

import (
	"time"

	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/economy"
)

// Intent is a discrete player input accepted by Engine.ApplyInput.
type Intent interface {
	intent()
}

// Move translates the active piece. DY > 0 is a soft drop.
type Move struct{ DX, DY int }

// Rotate turns the active piece one step.
type Rotate struct{ Clockwise bool }

// HardDrop drops and locks the active piece at once.
type HardDrop struct{}

// Hold swaps the active piece into a hold slot.
type Hold struct{ Slot int }

// Exchange swaps the active piece for a random piece of another kind.
type Exchange struct{}

// ClearBottomRow spends points to delete the bottom row.
type ClearBottomRow struct{}

func (Move) intent()           {}
func (Rotate) intent()         {}
func (HardDrop) intent()       {}
func (Hold) intent()           {}
func (Exchange) intent()       {}
func (ClearBottomRow) intent() {}

// Config holds every tunable of an engine.
type Config struct {
	LockDelay     time.Duration
	MaxLockResets int
	Lookahead     int // kinds reported by Snapshot.Next

	StartLevel    int
	LinesPerLevel int // 0 keeps the level fixed

	LineScores [5]int // indexed by cleared lines, scaled by level
	ComboBonus int    // per combo step, scaled by level

	FeverLines      int // cleared lines that trigger fever, 0 disables
	FeverDuration   time.Duration
	FeverMultiplier int

	Points economy.Rules
	Ladder economy.Ladder
}

// DefaultConfig returns the stock rules.
func DefaultConfig() Config {
	return Config{
		LockDelay:       DefaultLockDelay,
		MaxLockResets:   DefaultMaxLockResets,
		Lookahead:       5,
		StartLevel:      1,
		LinesPerLevel:   10,
		LineScores:      [5]int{0, 100, 300, 500, 800},
		ComboBonus:      50,
		FeverLines:      40,
		FeverDuration:   20 * time.Second,
		FeverMultiplier: 4,
		Points:          economy.DefaultRules(),
		Ladder:          economy.DefaultLadder(),
	}
}

// TickOutcome reports what happened since the previous Tick. Locks caused
// by a hard drop inside ApplyInput are folded into the next outcome.
type TickOutcome struct {
	NeedsSpawn   bool // a lock consumed the active piece
	Locked       bool
	ClearedRows  []int
	Spin         *SpinResult // nil unless the last lock was a spin
	ScoreDelta   int
	PointsDelta  int
	Promotion    *economy.Promotion
	LevelUp      bool
	FeverStarted bool
	FeverEnded   bool
	GameOver     bool
}

// Engine is the host-facing game: a controller plus scoring, points, rank,
// level and fever state. It is not safe for concurrent use; the host calls
// it from a single loop.
type Engine struct {
	cfg  Config
	ctrl *Controller

	points     economy.PointsState
	score      int
	level      int
	combo      int // consecutive clearing locks
	backToBack int // consecutive back-to-back eligible clears
	lastSpin   SpinResult

	feverRemaining time.Duration
	feverProgress  int // lines toward the next fever

	elapsed time.Duration
	pending TickOutcome
}

// New creates an engine seeded with seed and spawns the first piece.
func New(cfg Config, seed int64) *Engine {
	if cfg.Lookahead < 1 {
		cfg.Lookahead = 1
	}
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = economy.DefaultLadder()
	}
	if cfg.FeverMultiplier < 1 {
		cfg.FeverMultiplier = 1
	}
	cfg.StartLevel = ClampLevel(cfg.StartLevel)

	e := &Engine{cfg: cfg}
	e.ctrl = NewController(ControllerConfig{
		DropInterval:  LevelInterval(cfg.StartLevel),
		LockDelay:     cfg.LockDelay,
		MaxLockResets: cfg.MaxLockResets,
	}, seed)
	e.resetScoring()
	return e
}

// Config returns the engine's rules.
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset starts a fresh game with the same seed.
func (e *Engine) Reset() {
	e.ctrl.Reset()
	e.resetScoring()
}

// Reseed starts a fresh game with a new seed.
func (e *Engine) Reseed(seed int64) {
	e.ctrl.Reseed(seed)
	e.resetScoring()
}

func (e *Engine) resetScoring() {
	e.points = economy.PointsState{}
	e.score = 0
	e.combo = 0
	e.backToBack = 0
	e.lastSpin = SpinResult{}
	e.feverRemaining = 0
	e.feverProgress = 0
	e.elapsed = 0
	e.pending = TickOutcome{}
	e.SetLevel(e.cfg.StartLevel)
}

// SetLevel sets the level, clamped to 1..30, and the matching gravity.
func (e *Engine) SetLevel(n int) {
	e.level = ClampLevel(n)
	e.ctrl.SetDropInterval(LevelInterval(e.level))
}

// Level returns the current level.
func (e *Engine) Level() int {
	return e.level
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Lines returns the total number of cleared lines.
func (e *Engine) Lines() int {
	return e.ctrl.lines
}

// Points returns the current point balance.
func (e *Engine) Points() int {
	return e.points.TotalPoints
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool {
	return e.ctrl.GameOver()
}

// FeverActive reports whether fever mode is running.
func (e *Engine) FeverActive() bool {
	return e.feverRemaining > 0
}

// ActivateFever starts fever for d, or the configured duration when d <= 0.
// A running fever is extended, never shortened.
func (e *Engine) ActivateFever(d time.Duration) bool {
	if e.GameOver() {
		return false
	}
	if d <= 0 {
		d = e.cfg.FeverDuration
	}
	if d <= 0 {
		return false
	}
	if !e.FeverActive() {
		e.pending.FeverStarted = true
	}
	e.feverRemaining = max(e.feverRemaining, d)
	return true
}

// AwardAchievement credits a clamped achievement bonus and returns it.
func (e *Engine) AwardAchievement(amount int) int {
	if e.GameOver() {
		return 0
	}
	pts := e.cfg.Points.PointsFor(economy.EventAchievement, amount, 1)
	e.points.Earn(pts)
	e.pending.PointsDelta += pts
	return pts
}

func (e *Engine) multiplier() int {
	if e.FeverActive() {
		return e.cfg.FeverMultiplier
	}
	return 1
}

// Tick advances time by dt and returns everything that happened since the
// previous call.
func (e *Engine) Tick(dt time.Duration) TickOutcome {
	out := e.pending
	e.pending = TickOutcome{}
	if e.GameOver() {
		out.GameOver = true
		return out
	}
	if dt > 0 {
		e.elapsed += dt
	}

	if res, locked := e.ctrl.Tick(dt); locked {
		e.applyLock(res, &out)
	}

	if e.FeverActive() && dt > 0 {
		e.feverRemaining -= dt
		if e.feverRemaining <= 0 {
			e.feverRemaining = 0
			out.FeverEnded = true
		}
	}
	out.GameOver = e.GameOver()
	return out
}

// ApplyInput applies one intent. It returns false when the intent was
// rejected, in which case nothing changed.
func (e *Engine) ApplyInput(in Intent) bool {
	if e.GameOver() {
		return false
	}
	rules := e.cfg.Points

	switch v := in.(type) {
	case Move:
		if !e.ctrl.Move(v.DX, v.DY) {
			return false
		}
		if v.DY > 0 {
			pts := rules.PointsFor(economy.EventSoftDrop, v.DY, e.multiplier())
			e.points.Earn(pts)
			e.points.LastDropBonus = pts
			e.pending.PointsDelta += pts
		}
		return true

	case Rotate:
		return e.ctrl.Rotate(v.Clockwise)

	case HardDrop:
		res, rows, ok := e.ctrl.HardDrop()
		if !ok {
			return false
		}
		pts := rules.PointsFor(economy.EventHardDrop, rows, e.multiplier())
		e.points.Earn(pts)
		e.points.LastDropBonus = pts
		e.pending.PointsDelta += pts
		e.applyLock(res, &e.pending)
		e.pending.GameOver = e.GameOver()
		return true

	case Hold:
		if !e.ctrl.CanHold(v.Slot) {
			return false
		}
		cost := rules.HoldPrice(e.FeverActive())
		if !e.points.CanAfford(cost) {
			return false
		}
		e.ctrl.Hold(v.Slot)
		e.points.Spend(cost)
		e.pending.PointsDelta -= cost
		return true

	case Exchange:
		if !e.ctrl.CanExchange() {
			return false
		}
		cost := rules.ExchangeCost(e.points.ExchangeCount, e.FeverActive())
		if !e.points.CanAfford(cost) {
			return false
		}
		e.ctrl.Exchange()
		e.points.Spend(cost)
		e.points.ExchangeCount++
		e.pending.PointsDelta -= cost
		return true

	case ClearBottomRow:
		cost := -rules.PointsFor(economy.EventClearRowCost, 0, 1)
		if !e.points.CanAfford(cost) {
			return false
		}
		if !e.ctrl.ClearBottomRow() {
			return false
		}
		e.points.Spend(cost)
		e.pending.PointsDelta -= cost
		return true

	default:
		return false
	}
}

// applyLock scores a lock and folds it into out.
func (e *Engine) applyLock(res LockResult, out *TickOutcome) {
	rules := e.cfg.Points
	lines := res.Lines()
	mult := e.multiplier()

	out.Locked = true
	out.NeedsSpawn = true
	out.ClearedRows = append(out.ClearedRows, res.Rows...)

	delta := 0
	if lines > 0 {
		e.combo++
		delta += e.clearScore(res.Spin, lines)
		if e.combo > 1 {
			delta += e.cfg.ComboBonus * (e.combo - 1) * e.level
		}
		if BackToBackEligible(res.Spin, lines) {
			e.backToBack++
		} else {
			e.backToBack = 0
		}
		e.lastSpin = res.Spin
	} else {
		e.combo = 0
	}
	if res.Spin.IsSpin() {
		spin := res.Spin
		out.Spin = &spin
	}
	delta *= mult

	placement := rules.PointsFor(economy.EventPlacement, 0, 1)
	e.points.Earn(placement)
	e.points.ExchangeCount = 0
	out.PointsDelta += placement

	old := e.score
	e.score += delta
	if p, ok := e.cfg.Ladder.CheckPromotion(old, e.score); ok {
		scoreBonus, pointBonus := rules.Bonus(p)
		e.score += scoreBonus
		e.points.Earn(pointBonus)
		delta += scoreBonus
		out.PointsDelta += pointBonus
		out.Promotion = &p
	}
	out.ScoreDelta += delta

	if e.cfg.LinesPerLevel > 0 {
		target := e.cfg.StartLevel + e.ctrl.lines/e.cfg.LinesPerLevel
		if ClampLevel(target) > e.level {
			e.SetLevel(target)
			out.LevelUp = true
		}
	}

	if e.cfg.FeverLines > 0 && lines > 0 && !e.FeverActive() {
		e.feverProgress += lines
		if e.feverProgress >= e.cfg.FeverLines {
			e.feverProgress = 0
			if e.cfg.FeverDuration > 0 {
				e.feverRemaining = e.cfg.FeverDuration
				out.FeverStarted = true
			}
		}
	}
}

// clearScore is the unmultiplied score of a clear: the spin bonus for spins,
// otherwise the line table scaled by level.
func (e *Engine) clearScore(spin SpinResult, lines int) int {
	if spin.IsSpin() {
		return spin.Bonus
	}
	return e.cfg.LineScores[min(lines, 4)] * e.level
}
