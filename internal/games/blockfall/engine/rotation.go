package engine

// Offset is a kick translation. Y grows downwards, matching the field.
type Offset struct {
	DX, DY int
}

// kickCount is the number of offsets tried per rotation, including {0,0}.
const kickCount = 5

// Kick tables are indexed [fromRotation][direction] where direction 0 is
// clockwise and 1 is counter-clockwise. The values are the standard SRS
// tables with the y axis flipped.
var jlstzKicks = [4][2][kickCount]Offset{
	0: { // 0->R, 0->L
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	},
	1: { // R->2, R->0
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	2: { // 2->L, 2->R
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	},
	3: { // L->0, L->2
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	},
}

var iKicks = [4][2][kickCount]Offset{
	0: { // 0->R, 0->L
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	},
	1: { // R->2, R->0
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	},
	2: { // 2->L, 2->R
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	},
	3: { // L->0, L->2
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	},
}

// Kicks returns the ordered offsets tried when rotating kind out of from.
func Kicks(kind Kind, from int, clockwise bool) [kickCount]Offset {
	dir := 1
	if clockwise {
		dir = 0
	}
	if kind == KindI {
		return iKicks[normRotation(from)][dir]
	}
	return jlstzKicks[normRotation(from)][dir]
}

// RotationResult describes the outcome of a rotation attempt.
type RotationResult struct {
	Success      bool
	X, Y         int
	Rotation     int
	WallKickUsed bool
	KickIndex    int // index of the winning offset, -1 on failure
}

// AttemptRotation tries to rotate p one step. Offsets are tried in table
// order and the first legal pose wins. Neither p nor f is modified.
func AttemptRotation(p Piece, f *Field, clockwise bool) RotationResult {
	target := p.Rotation - 1
	if clockwise {
		target = p.Rotation + 1
	}
	target = normRotation(target)

	for i, off := range Kicks(p.Kind, p.Rotation, clockwise) {
		candidate := Piece{Kind: p.Kind, X: p.X + off.DX, Y: p.Y + off.DY, Rotation: target}
		if f.Fits(candidate) {
			return RotationResult{
				Success:      true,
				X:            candidate.X,
				Y:            candidate.Y,
				Rotation:     target,
				WallKickUsed: i > 0,
				KickIndex:    i,
			}
		}
	}

	return RotationResult{
		X:         p.X,
		Y:         p.Y,
		Rotation:  p.Rotation,
		KickIndex: -1,
	}
}
