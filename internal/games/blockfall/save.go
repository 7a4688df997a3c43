package blockfall

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/economy"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/engine"
)

// saveVersion is bumped whenever the saved layout changes.
const saveVersion = 2

// emptyCell marks an empty field cell in saved rows.
const emptyCell = '_'

// savedGame is the persisted layout of a game. Field rows are stored top
// row first as strings of kind letters so saves stay readable.
type savedGame struct {
	Version  int           `yaml:"version"`
	Mode     string        `yaml:"mode"`
	Elapsed  time.Duration `yaml:"elapsed"`
	Field    []string      `yaml:"field"`
	Piece    *savedPiece   `yaml:"piece,omitempty"`
	Hold     []savedHold   `yaml:"hold"`
	CanHold  bool          `yaml:"can_hold"`
	Bag      savedBag      `yaml:"bag"`
	GameOver bool          `yaml:"game_over"`
	Points   savedPoints   `yaml:"points"`
	Score    int           `yaml:"score"`
	Level    int           `yaml:"level"`
	Combo    int           `yaml:"combo"`
	B2B      int           `yaml:"back_to_back"`
	LastSpin savedSpin     `yaml:"last_spin"`
	Counters savedCounters `yaml:"counters"`
	Timers   savedTimers   `yaml:"timers"`
	Rotation savedRotation `yaml:"rotation"`
	Fever    savedFever    `yaml:"fever"`
}

type savedPiece struct {
	Kind     string `yaml:"kind"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Rotation int    `yaml:"rotation"`
}

type savedHold struct {
	Kind string `yaml:"kind,omitempty"`
	Used bool   `yaml:"used"`
}

type savedBag struct {
	Seed  uint64 `yaml:"seed"`
	RNG   string `yaml:"rng"`      // hex PCG state
	Pick  string `yaml:"pick_rng"` // hex PCG state for exchanges
	Queue string `yaml:"queue"`    // kind letters
}

type savedPoints struct {
	Total         int `yaml:"total"`
	ExchangeCount int `yaml:"exchange_count"`
	LastDropBonus int `yaml:"last_drop_bonus"`
}

type savedSpin struct {
	Type    int `yaml:"type"`
	Variant int `yaml:"variant"`
	Bonus   int `yaml:"bonus"`
	Lines   int `yaml:"lines"`
}

type savedCounters struct {
	Lines        int `yaml:"lines"`
	BlocksPlaced int `yaml:"blocks_placed"`
	PiecesPlaced int `yaml:"pieces_placed"`
	Holds        int `yaml:"holds"`
	Exchanges    int `yaml:"exchanges"`
}

type savedTimers struct {
	Drop         time.Duration `yaml:"drop"`
	DropInterval time.Duration `yaml:"drop_interval"`
	Lock         time.Duration `yaml:"lock"`
	LockResets   int           `yaml:"lock_resets"`
	Locking      bool          `yaml:"locking"`
}

type savedRotation struct {
	LastActionWasRotation bool `yaml:"last_action_was_rotation"`
	LastRotationWasKick   bool `yaml:"last_rotation_was_kick"`
	LastKickIndex         int  `yaml:"last_kick_index"`
}

type savedFever struct {
	Remaining time.Duration `yaml:"remaining"`
	Progress  int           `yaml:"progress"`
}

// EncodeSnapshot serializes a snapshot for the given mode as YAML.
func EncodeSnapshot(mode Mode, s engine.Snapshot) ([]byte, error) {
	sg := savedGame{
		Version:  saveVersion,
		Mode:     string(mode),
		Elapsed:  s.Elapsed,
		Field:    encodeField(s.Field),
		CanHold:  s.CanHold,
		GameOver: s.GameOver,
		Bag: savedBag{
			Seed:  s.Bag.Seed,
			RNG:   hex.EncodeToString(s.Bag.RNG),
			Pick:  hex.EncodeToString(s.Bag.PickRNG),
			Queue: encodeKinds(s.Bag.Queue),
		},
		Points: savedPoints{
			Total:         s.Points.TotalPoints,
			ExchangeCount: s.Points.ExchangeCount,
			LastDropBonus: s.Points.LastDropBonus,
		},
		Score: s.Score,
		Level: s.Level,
		Combo: s.Combo,
		B2B:   s.BackToBack,
		LastSpin: savedSpin{
			Type:    int(s.LastSpin.Type),
			Variant: int(s.LastSpin.Variant),
			Bonus:   s.LastSpin.Bonus,
			Lines:   s.LastSpin.Lines,
		},
		Counters: savedCounters{
			Lines:        s.Lines,
			BlocksPlaced: s.BlocksPlaced,
			PiecesPlaced: s.PiecesPlaced,
			Holds:        s.Holds,
			Exchanges:    s.Exchanges,
		},
		Timers: savedTimers{
			Drop:         s.DropTimer,
			DropInterval: s.DropInterval,
			Lock:         s.LockTimer,
			LockResets:   s.LockResets,
			Locking:      s.Locking,
		},
		Rotation: savedRotation{
			LastActionWasRotation: s.LastActionWasRotation,
			LastRotationWasKick:   s.LastRotationWasKick,
			LastKickIndex:         s.LastKickIndex,
		},
		Fever: savedFever{
			Remaining: s.FeverRemaining,
			Progress:  s.FeverProgress,
		},
	}
	if s.HasPiece {
		sg.Piece = &savedPiece{
			Kind:     s.Piece.Kind.String(),
			X:        s.Piece.X,
			Y:        s.Piece.Y,
			Rotation: s.Piece.Rotation,
		}
	}
	for _, h := range s.Hold {
		slot := savedHold{Used: h.Used}
		if h.Filled {
			slot.Kind = h.Kind.String()
		}
		sg.Hold = append(sg.Hold, slot)
	}

	data, err := yaml.Marshal(sg)
	if err != nil {
		return nil, fmt.Errorf("blockfall: encode save: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a save written by EncodeSnapshot. Only the shape of
// the save is checked here; Engine.Restore validates the game state.
func DecodeSnapshot(data []byte) (Mode, engine.Snapshot, error) {
	var sg savedGame
	if err := yaml.Unmarshal(data, &sg); err != nil {
		return "", engine.Snapshot{}, fmt.Errorf("blockfall: decode save: %w", err)
	}
	if sg.Version != saveVersion {
		return "", engine.Snapshot{}, fmt.Errorf("blockfall: unsupported save version %d", sg.Version)
	}

	s := engine.Snapshot{
		Elapsed:  sg.Elapsed,
		CanHold:  sg.CanHold,
		GameOver: sg.GameOver,
		Points: economy.PointsState{
			TotalPoints:   sg.Points.Total,
			ExchangeCount: sg.Points.ExchangeCount,
			LastDropBonus: sg.Points.LastDropBonus,
		},
		Score:      sg.Score,
		Level:      sg.Level,
		Combo:      sg.Combo,
		BackToBack: sg.B2B,
		LastSpin: engine.SpinResult{
			Type:    engine.SpinType(sg.LastSpin.Type),
			Variant: engine.SpinVariant(sg.LastSpin.Variant),
			Bonus:   sg.LastSpin.Bonus,
			Lines:   sg.LastSpin.Lines,
		},

		Lines:        sg.Counters.Lines,
		BlocksPlaced: sg.Counters.BlocksPlaced,
		PiecesPlaced: sg.Counters.PiecesPlaced,
		Holds:        sg.Counters.Holds,
		Exchanges:    sg.Counters.Exchanges,

		DropTimer:    sg.Timers.Drop,
		DropInterval: sg.Timers.DropInterval,
		LockTimer:    sg.Timers.Lock,
		LockResets:   sg.Timers.LockResets,
		Locking:      sg.Timers.Locking,

		LastActionWasRotation: sg.Rotation.LastActionWasRotation,
		LastRotationWasKick:   sg.Rotation.LastRotationWasKick,
		LastKickIndex:         sg.Rotation.LastKickIndex,

		FeverRemaining: sg.Fever.Remaining,
		FeverProgress:  sg.Fever.Progress,
	}

	field, err := decodeField(sg.Field)
	if err != nil {
		return "", engine.Snapshot{}, err
	}
	s.Field = field

	if sg.Piece != nil {
		k, ok := parseKind(sg.Piece.Kind)
		if !ok {
			return "", engine.Snapshot{}, fmt.Errorf("blockfall: save piece has unknown kind %q", sg.Piece.Kind)
		}
		s.HasPiece = true
		s.Piece = engine.Piece{Kind: k, X: sg.Piece.X, Y: sg.Piece.Y, Rotation: sg.Piece.Rotation}
	}

	if len(sg.Hold) != engine.HoldSlots {
		return "", engine.Snapshot{}, fmt.Errorf("blockfall: save has %d hold slots, want %d", len(sg.Hold), engine.HoldSlots)
	}
	for i, h := range sg.Hold {
		s.Hold[i].Used = h.Used
		if h.Kind == "" {
			continue
		}
		k, ok := parseKind(h.Kind)
		if !ok {
			return "", engine.Snapshot{}, fmt.Errorf("blockfall: save hold slot %d has unknown kind %q", i, h.Kind)
		}
		s.Hold[i].Kind = k
		s.Hold[i].Filled = true
	}

	rng, err := hex.DecodeString(sg.Bag.RNG)
	if err != nil {
		return "", engine.Snapshot{}, fmt.Errorf("blockfall: save bag rng: %w", err)
	}
	pick, err := hex.DecodeString(sg.Bag.Pick)
	if err != nil {
		return "", engine.Snapshot{}, fmt.Errorf("blockfall: save pick rng: %w", err)
	}
	queue, err := decodeKinds(sg.Bag.Queue)
	if err != nil {
		return "", engine.Snapshot{}, err
	}
	s.Bag = engine.BagState{Seed: sg.Bag.Seed, RNG: rng, PickRNG: pick, Queue: queue}

	return Mode(sg.Mode), s, nil
}

func encodeField(f engine.Field) []string {
	rows := make([]string, engine.Height)
	var b strings.Builder
	for y := range f {
		b.Reset()
		for _, c := range f[y] {
			if c.Empty() {
				b.WriteByte(emptyCell)
			} else {
				b.WriteString(c.Kind().String())
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func decodeField(rows []string) (engine.Field, error) {
	var f engine.Field
	if len(rows) != engine.Height {
		return f, fmt.Errorf("blockfall: save field has %d rows, want %d", len(rows), engine.Height)
	}
	for y, row := range rows {
		if len(row) != engine.Width {
			return f, fmt.Errorf("blockfall: save field row %d has %d cells, want %d", y, len(row), engine.Width)
		}
		for x := 0; x < engine.Width; x++ {
			if row[x] == emptyCell {
				continue
			}
			k, ok := parseKind(row[x : x+1])
			if !ok {
				return f, fmt.Errorf("blockfall: save field cell (%d,%d) has unknown kind %q", x, y, row[x])
			}
			f[y][x] = engine.CellOf(k)
		}
	}
	return f, nil
}

func encodeKinds(kinds []engine.Kind) string {
	var b strings.Builder
	for _, k := range kinds {
		b.WriteString(k.String())
	}
	return b.String()
}

func decodeKinds(s string) ([]engine.Kind, error) {
	kinds := make([]engine.Kind, 0, len(s))
	for i := range len(s) {
		k, ok := parseKind(s[i : i+1])
		if !ok {
			return nil, fmt.Errorf("blockfall: save bag queue has unknown kind %q", s[i])
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// parseKind maps a kind letter back to its Kind.
func parseKind(s string) (engine.Kind, bool) {
	for _, k := range engine.AllKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
