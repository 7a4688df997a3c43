package blockfall

import (
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/engine"
)

// Placement heuristic weights, scaled by 100.
const (
	weightHeight = -51
	weightLines  = 76
	weightHoles  = -36
	weightBumps  = -18
)

// maxStuckFrames is how many frames the CPU waits for a blocked move before
// dropping where it is.
const maxStuckFrames = 3

// Autoplayer is a CPU player. It picks a placement for each new piece and
// walks the piece there one action per frame. It never holds or spends
// points, and its choices depend only on the snapshot, so a seeded game
// driven by it replays exactly.
type Autoplayer struct {
	planned bool
	pieces  int // PiecesPlaced when the target was chosen
	target  engine.Piece
	last    engine.Piece
	stuck   int
}

// NewAutoplayer creates a CPU player.
func NewAutoplayer() *Autoplayer {
	return &Autoplayer{}
}

// Frame returns the input for the next tick.
func (a *Autoplayer) Frame(s engine.Snapshot) core.InputFrame {
	f := core.NewInputFrame()
	if !s.HasPiece || s.GameOver {
		return f
	}

	p := s.Piece
	if !a.planned || s.PiecesPlaced != a.pieces || p.Kind != a.target.Kind {
		a.target, _ = BestPlacement(s.Field, p.Kind)
		a.pieces = s.PiecesPlaced
		a.planned = true
		a.stuck = 0
	} else if p.X == a.last.X && p.Rotation == a.last.Rotation {
		a.stuck++
	} else {
		a.stuck = 0
	}
	a.last = p

	switch {
	case a.stuck > maxStuckFrames:
		f.Set(core.ActionHardDrop)
	case p.Rotation != a.target.Rotation:
		f.Set(core.ActionRotateCW)
	case p.X < a.target.X:
		f.Set(core.ActionRight)
	case p.X > a.target.X:
		f.Set(core.ActionLeft)
	default:
		f.Set(core.ActionHardDrop)
	}
	return f
}

// BestPlacement returns the resting pose of kind that leaves the best field,
// trying every rotation and column from the spawn row. ok is false when the
// piece fits nowhere.
func BestPlacement(field engine.Field, kind engine.Kind) (best engine.Piece, ok bool) {
	bestScore := 0
	for r := range engine.RotationCount(kind) {
		for x := -3; x < engine.Width; x++ {
			p := engine.Piece{Kind: kind, X: x, Y: engine.SpawnY, Rotation: r}
			if !field.Fits(p) {
				continue
			}
			for field.Fits(p.Moved(0, 1)) {
				p = p.Moved(0, 1)
			}

			after := field
			after.Commit(p)
			rows := after.CompletedRows()
			after.Clear(rows)

			score := evaluate(&after, len(rows))
			if !ok || score > bestScore {
				best, bestScore, ok = p, score, true
			}
		}
	}
	return best, ok
}

// evaluate scores a field after a placement; higher is better.
func evaluate(f *engine.Field, lines int) int {
	var heights [engine.Width]int
	holes := 0
	for x := range engine.Width {
		seen := false
		for y := range engine.Height {
			if !f[y][x].Empty() {
				if !seen {
					heights[x] = engine.Height - y
					seen = true
				}
			} else if seen {
				holes++
			}
		}
	}

	total, bumps := 0, 0
	for x, h := range heights {
		total += h
		if x > 0 {
			bumps += abs(h - heights[x-1])
		}
	}
	return weightHeight*total + weightLines*lines + weightHoles*holes + weightBumps*bumps
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
