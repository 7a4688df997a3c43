package engine

// SpinType is the family of a spin clear.
type SpinType int

const (
	SpinNone SpinType = iota
	SpinT
	SpinSZ
	SpinI
	SpinJL
)

// String returns the display name of the spin family.
func (t SpinType) String() string {
	switch t {
	case SpinT:
		return "T-Spin"
	case SpinSZ:
		return "SZ-Spin"
	case SpinI:
		return "I-Spin"
	case SpinJL:
		return "JL-Spin"
	default:
		return "None"
	}
}

// SpinVariant is the size of a spin clear.
type SpinVariant int

const (
	VariantNone SpinVariant = iota
	VariantMini
	VariantSingle
	VariantDouble
	VariantTriple
)

// String returns the display name of the variant.
func (v SpinVariant) String() string {
	switch v {
	case VariantMini:
		return "Mini"
	case VariantSingle:
		return "Single"
	case VariantDouble:
		return "Double"
	case VariantTriple:
		return "Triple"
	default:
		return "None"
	}
}

// SpinResult is the classification of one lock.
type SpinResult struct {
	Type    SpinType
	Variant SpinVariant
	Bonus   int
	Lines   int
}

// IsSpin reports whether the result names a spin.
func (r SpinResult) IsSpin() bool {
	return r.Type != SpinNone
}

// Label returns e.g. "T-Spin Double" or "T-Spin Mini"; empty for no spin.
func (r SpinResult) Label() string {
	if !r.IsSpin() {
		return ""
	}
	return r.Type.String() + " " + r.Variant.String()
}

// Bonus points indexed by lines-1.
var (
	tSpinMiniBonus = [3]int{1000, 2000, 3000}
	tSpinBonus     = [3]int{2000, 5000, 10000}
	szSpinBonus    = [3]int{800, 2000, 4000}
	iSpinBonus     = [3]int{600, 1500, 3000}
	jlSpinBonus    = [3]int{700, 1800, 3500}
)

// Corner probes around the pivot. I probes are stretched along its long axis.
var (
	unitCorners        = [4]Offset{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	iHorizontalCorners = [4]Offset{{-2, -1}, {2, -1}, {-2, 1}, {2, 1}}
	iVerticalCorners   = [4]Offset{{-1, -2}, {1, -2}, {-1, 2}, {1, 2}}
)

// minMiniKick is the first kick index treated as a mini T-Spin kick.
const minMiniKick = 3

// cornerProbes returns the four probe offsets for a piece pose.
func cornerProbes(kind Kind, rotation int) [4]Offset {
	if kind == KindI {
		if normRotation(rotation)%2 == 0 {
			return iHorizontalCorners
		}
		return iVerticalCorners
	}
	return unitCorners
}

// FilledCorners counts occupied or out-of-bounds corner probes around p.
func FilledCorners(p Piece, f *Field) int {
	c := p.Center()
	n := 0
	for _, off := range cornerProbes(p.Kind, p.Rotation) {
		if f.Filled(c.X+off.DX, c.Y+off.DY) {
			n++
		}
	}
	return n
}

// ClassifySpin decides whether a lock was a spin. p is the piece at rest,
// f is the field before p was committed, wallKick and kickIndex describe the
// rotation that brought p to rest, and lines is the number of rows cleared.
// Four-line clears are never spins.
func ClassifySpin(p Piece, f *Field, wallKick bool, kickIndex int, lines int) SpinResult {
	none := SpinResult{Type: SpinNone, Variant: VariantNone, Lines: lines}
	if !wallKick || lines < 1 || lines > 3 {
		return none
	}

	corners := FilledCorners(p, f)
	variant := SpinVariant(int(VariantSingle) + lines - 1)

	switch p.Kind {
	case KindT:
		if corners < 3 {
			return none
		}
		if corners == 3 && kickIndex >= minMiniKick {
			return SpinResult{Type: SpinT, Variant: VariantMini, Bonus: tSpinMiniBonus[lines-1], Lines: lines}
		}
		return SpinResult{Type: SpinT, Variant: variant, Bonus: tSpinBonus[lines-1], Lines: lines}
	case KindS, KindZ:
		if corners < 2 {
			return none
		}
		return SpinResult{Type: SpinSZ, Variant: variant, Bonus: szSpinBonus[lines-1], Lines: lines}
	case KindI:
		if corners < 2 {
			return none
		}
		return SpinResult{Type: SpinI, Variant: variant, Bonus: iSpinBonus[lines-1], Lines: lines}
	case KindJ, KindL:
		if corners < 2 {
			return none
		}
		return SpinResult{Type: SpinJL, Variant: variant, Bonus: jlSpinBonus[lines-1], Lines: lines}
	default:
		return none
	}
}

// BackToBackEligible reports whether a clear keeps a back-to-back chain:
// any spin clear or any four-line clear.
func BackToBackEligible(spin SpinResult, lines int) bool {
	return lines == 4 || (lines > 0 && spin.IsSpin())
}
