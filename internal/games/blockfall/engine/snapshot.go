package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/economy"
)

// Snapshot is the complete engine state. It is enough to render a frame and
// to resume a game exactly through Restore.
type Snapshot struct {
	Elapsed time.Duration

	Field    Field
	Piece    Piece
	HasPiece bool
	GhostY   int
	Hold     [HoldSlots]HoldSlot
	CanHold  bool
	Next     []Kind // lookahead, derived from Bag
	Bag      BagState
	GameOver bool

	Points       economy.PointsState
	Score        int
	Rank         economy.Rank
	RankProgress int
	LastSpin     SpinResult
	BackToBack   int
	Combo        int
	Level        int

	Lines        int
	BlocksPlaced int
	PiecesPlaced int
	Holds        int
	Exchanges    int

	DropTimer    time.Duration
	DropInterval time.Duration
	LockTimer    time.Duration
	LockResets   int
	Locking      bool

	LastActionWasRotation bool
	LastRotationWasKick   bool
	LastKickIndex         int

	FeverRemaining time.Duration
	FeverProgress  int
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	c := e.ctrl
	s := Snapshot{
		Elapsed:  e.elapsed,
		Field:    c.field,
		Piece:    c.piece,
		HasPiece: c.active,
		Hold:     c.hold,
		CanHold:  c.canHold,
		Next:     c.bag.Peek(e.cfg.Lookahead),
		Bag:      c.bag.state(),
		GameOver: c.gameOver,

		Points:       e.points,
		Score:        e.score,
		Rank:         e.cfg.Ladder.ForScore(e.score),
		RankProgress: e.cfg.Ladder.Progress(e.score),
		LastSpin:     e.lastSpin,
		BackToBack:   e.backToBack,
		Combo:        e.combo,
		Level:        e.level,

		Lines:        c.lines,
		BlocksPlaced: c.blocksPlaced,
		PiecesPlaced: c.piecesPlaced,
		Holds:        c.holds,
		Exchanges:    c.exchanges,

		DropTimer:    c.dropTimer,
		DropInterval: c.dropInterval,
		LockTimer:    c.lockTimer,
		LockResets:   c.lockResets,
		Locking:      c.locking,

		LastActionWasRotation: c.lastActionWasRotation,
		LastRotationWasKick:   c.lastRotationWasKick,
		LastKickIndex:         c.lastKickIndex,

		FeverRemaining: e.feverRemaining,
		FeverProgress:  e.feverProgress,
	}
	if c.active {
		s.GhostY = c.GhostY()
	}
	return s
}

// Restore replaces the engine state with s. The snapshot is validated first
// and the engine is left untouched when it is rejected.
func (e *Engine) Restore(s Snapshot) error {
	for y := range s.Field {
		for x, cell := range s.Field[y] {
			if !cell.Empty() && !cell.Kind().Valid() {
				return fmt.Errorf("engine: field cell (%d,%d) holds invalid value %d", x, y, cell)
			}
		}
	}
	if s.HasPiece {
		if !s.Piece.Kind.Valid() {
			return fmt.Errorf("engine: active piece has invalid kind %d", s.Piece.Kind)
		}
		if s.Piece.Rotation < 0 || s.Piece.Rotation > 3 {
			return fmt.Errorf("engine: active piece has invalid rotation %d", s.Piece.Rotation)
		}
		if !s.Field.Fits(s.Piece) {
			return fmt.Errorf("engine: active piece %s at (%d,%d) overlaps the field", s.Piece.Kind, s.Piece.X, s.Piece.Y)
		}
	} else if !s.GameOver {
		return fmt.Errorf("engine: snapshot has no active piece but the game is not over")
	}
	for i, h := range s.Hold {
		if h.Filled && !h.Kind.Valid() {
			return fmt.Errorf("engine: hold slot %d has invalid kind %d", i, h.Kind)
		}
	}
	if s.Level < MinLevel || s.Level > MaxLevel {
		return fmt.Errorf("engine: level %d outside %d..%d", s.Level, MinLevel, MaxLevel)
	}
	if s.Points.TotalPoints < 0 {
		return fmt.Errorf("engine: negative point balance %d", s.Points.TotalPoints)
	}
	if completed := s.Field.CompletedRows(); len(completed) > 0 {
		return fmt.Errorf("engine: field has uncleared rows %v", completed)
	}

	bag := &Bag{}
	if err := bag.restore(s.Bag); err != nil {
		return err
	}

	c := e.ctrl
	c.bag = bag
	c.field = s.Field
	c.piece = s.Piece
	c.active = s.HasPiece
	c.hold = s.Hold
	c.canHold = s.CanHold
	c.gameOver = s.GameOver

	c.lines = s.Lines
	c.blocksPlaced = s.BlocksPlaced
	c.piecesPlaced = s.PiecesPlaced
	c.holds = s.Holds
	c.exchanges = s.Exchanges

	c.dropTimer = s.DropTimer
	c.lockTimer = s.LockTimer
	c.lockResets = s.LockResets
	c.locking = s.Locking
	c.lastActionWasRotation = s.LastActionWasRotation
	c.lastRotationWasKick = s.LastRotationWasKick
	c.lastKickIndex = s.LastKickIndex

	e.elapsed = s.Elapsed
	e.points = s.Points
	e.score = s.Score
	e.lastSpin = s.LastSpin
	e.backToBack = s.BackToBack
	e.combo = s.Combo
	e.feverRemaining = s.FeverRemaining
	e.feverProgress = s.FeverProgress
	e.pending = TickOutcome{}
	e.SetLevel(s.Level)
	if s.DropInterval > 0 {
		c.dropInterval = s.DropInterval
	}
	return nil
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (s *Snapshot) Hash() uint64 {
	h := uint64(s.Elapsed) //#nosec G115 -- hash computation
	for y := range s.Field {
		for _, cell := range s.Field[y] {
			h = h*31 + uint64(cell)
		}
	}
	h = h*31 + uint64(s.Piece.Kind)
	h = h*31 + uint64(s.Piece.X)        //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Piece.Y)        //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Piece.Rotation) //#nosec G115 -- hash computation
	for _, slot := range s.Hold {
		h = h*31 + uint64(slot.Kind)
		h = h*31 + boolBit(slot.Filled)
		h = h*31 + boolBit(slot.Used)
	}
	for _, k := range s.Next {
		h = h*31 + uint64(k)
	}
	for _, b := range s.Bag.RNG {
		h = h*31 + uint64(b)
	}
	for _, b := range s.Bag.PickRNG {
		h = h*31 + uint64(b)
	}
	h = h*31 + uint64(s.Score)                //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Points.TotalPoints)   //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Points.ExchangeCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Level)                //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Lines)                //#nosec G115 -- hash computation
	h = h*31 + uint64(s.BlocksPlaced)         //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Combo)                //#nosec G115 -- hash computation
	h = h*31 + uint64(s.BackToBack)           //#nosec G115 -- hash computation
	h = h*31 + uint64(s.DropTimer)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.LockTimer)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.LockResets)           //#nosec G115 -- hash computation
	h = h*31 + uint64(s.FeverRemaining)       //#nosec G115 -- hash computation
	h = h*31 + boolBit(s.GameOver)
	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
