// Package engine implements the falling-block simulation: piece geometry,
// the bag randomizer, the playing field, SRS rotation, spin classification
// and the tick-driven controller that ties them together.
//
// Like the other game cores it has no platform dependencies. Time only
// advances through Tick, so a seed plus an input sequence replays exactly.
package engine

// Kind identifies one of the seven tetromino shapes.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// KindCount is the number of distinct piece kinds.
const KindCount = 7

// AllKinds lists every kind in declaration order.
var AllKinds = [KindCount]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// String returns the single-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return "?"
	}
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	return k < KindCount
}

// Block is a single cell position. Relative to a piece origin when returned
// by Blocks, absolute when returned by Piece.Blocks.
type Block struct {
	X, Y int
}

// shapes holds the four rotation states of each kind inside a 4x4 box whose
// top-left corner is the piece origin. Rotation 0 is the spawn state; states
// follow SRS so the kick tables line up. O is identical in every state.
var shapes = [KindCount][4][4]Block{
	KindI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	KindO: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	},
	KindT: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	KindS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	KindZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	KindJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	KindL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

// pivots is the rounded shape centre per kind and rotation, relative to the
// piece origin. The spin classifier probes corners around this cell.
var pivots = [KindCount][4]Block{
	KindI: {{2, 1}, {2, 2}, {2, 2}, {1, 2}},
	KindO: {{2, 1}, {2, 1}, {2, 1}, {2, 1}},
	KindT: {{1, 1}, {1, 1}, {1, 1}, {1, 1}},
	KindS: {{1, 1}, {1, 1}, {1, 1}, {1, 1}},
	KindZ: {{1, 1}, {1, 1}, {1, 1}, {1, 1}},
	KindJ: {{1, 1}, {1, 1}, {1, 1}, {1, 1}},
	KindL: {{1, 1}, {1, 1}, {1, 1}, {1, 1}},
}

// normRotation folds any integer rotation into 0..3.
func normRotation(rotation int) int {
	return ((rotation % 4) + 4) % 4
}

// Blocks returns the four cells of kind in the given rotation, relative to
// the piece origin.
func Blocks(kind Kind, rotation int) [4]Block {
	return shapes[kind][normRotation(rotation)]
}

// RotationCount returns how many visually distinct rotation states the kind
// has. Every kind still cycles through four rotation indices.
func RotationCount(kind Kind) int {
	if kind == KindO {
		return 1
	}
	return 4
}

// Pivot returns the centre cell used for spin corner probes.
func Pivot(kind Kind, rotation int) Block {
	return pivots[kind][normRotation(rotation)]
}

// Spawn pose shared by every kind.
const (
	SpawnX = 3
	SpawnY = 0
)

// Piece is the active, falling tetromino.
type Piece struct {
	Kind     Kind
	X        int
	Y        int
	Rotation int
}

// SpawnPiece returns a piece of kind in the standard spawn pose.
func SpawnPiece(kind Kind) Piece {
	return Piece{Kind: kind, X: SpawnX, Y: SpawnY}
}

// Blocks returns the absolute field cells covered by the piece.
func (p Piece) Blocks() [4]Block {
	rel := Blocks(p.Kind, p.Rotation)
	var out [4]Block
	for i, b := range rel {
		out[i] = Block{X: p.X + b.X, Y: p.Y + b.Y}
	}
	return out
}

// Moved returns a copy translated by (dx, dy).
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Center returns the absolute pivot cell of the piece.
func (p Piece) Center() Block {
	c := Pivot(p.Kind, p.Rotation)
	return Block{X: p.X + c.X, Y: p.Y + c.Y}
}
