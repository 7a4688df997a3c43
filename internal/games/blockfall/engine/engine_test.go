package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const frame = 16 * time.Millisecond

// script drives an engine with a fixed input pattern for n frames and
// checks the lock invariants after every lock.
func script(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		switch i % 37 {
		case 3:
			e.ApplyInput(Move{DX: -1})
		case 7:
			e.ApplyInput(Rotate{Clockwise: true})
		case 11:
			e.ApplyInput(Move{DX: 1})
		case 13:
			e.ApplyInput(Move{DY: 1})
		case 19:
			e.ApplyInput(Rotate{Clockwise: false})
		case 23:
			e.ApplyInput(Move{DX: 2 - i%5})
		case 31:
			e.ApplyInput(HardDrop{})
		}
		out := e.Tick(frame)
		if out.Locked {
			f := e.ctrl.field
			if rows := f.CompletedRows(); len(rows) != 0 {
				t.Fatalf("frame %d: completed rows %v left after lock", i, rows)
			}
		}
		if out.GameOver {
			return
		}
	}
}

func TestEngineSetLevel(t *testing.T) {
	tests := []struct {
		level     int
		wantLevel int
		want      time.Duration
	}{
		{1, 1, 1000 * time.Millisecond},
		{2, 2, 950 * time.Millisecond},
		{10, 10, 580 * time.Millisecond},
		{15, 15, 410 * time.Millisecond},
		{30, 30, 200 * time.Millisecond},
		{31, 30, 200 * time.Millisecond},
		{99, 30, 200 * time.Millisecond},
		{0, 1, 1000 * time.Millisecond},
	}
	for _, tt := range tests {
		e := New(DefaultConfig(), 1)
		e.SetLevel(tt.level)
		snap := e.Snapshot()
		if snap.Level != tt.wantLevel || snap.DropInterval != tt.want {
			t.Errorf("SetLevel(%d) = level %d interval %v, expected %d/%v",
				tt.level, snap.Level, snap.DropInterval, tt.wantLevel, tt.want)
		}
	}
}

func TestEngineDeterminism(t *testing.T) {
	e1 := New(DefaultConfig(), 12345)
	e2 := New(DefaultConfig(), 12345)
	script(t, e1, 3000)
	script(t, e2, 3000)

	s1, s2 := e1.Snapshot(), e2.Snapshot()
	if diff := cmp.Diff(s1, s2); diff != "" {
		t.Errorf("same seed and inputs diverged (-run1 +run2):\n%s", diff)
	}
	if s1.Hash() != s2.Hash() {
		t.Errorf("hashes differ: %d vs %d", s1.Hash(), s2.Hash())
	}
	if s1.PiecesPlaced == 0 {
		t.Error("script placed no pieces")
	}
}

func TestEngineHardDropOutcome(t *testing.T) {
	e := New(DefaultConfig(), 3)
	before := e.Snapshot()
	rows := before.GhostY - before.Piece.Y

	if !e.ApplyInput(HardDrop{}) {
		t.Fatal("HardDrop rejected")
	}
	out := e.Tick(0)
	if !out.Locked || !out.NeedsSpawn {
		t.Errorf("outcome = %+v, expected a lock", out)
	}
	if want := rows*2 + 1; out.PointsDelta != want {
		t.Errorf("PointsDelta = %d, expected %d", out.PointsDelta, want)
	}
	if got := e.Snapshot().Points.LastDropBonus; got != rows*2 {
		t.Errorf("LastDropBonus = %d, expected %d", got, rows*2)
	}
	if out := e.Tick(0); out.Locked {
		t.Error("queued lock reported twice")
	}
}

func TestEngineSoftDropPoints(t *testing.T) {
	e := New(DefaultConfig(), 4)
	if !e.ApplyInput(Move{DY: 3}) {
		t.Fatal("soft drop rejected")
	}
	if got := e.Snapshot().Points.TotalPoints; got != 3 {
		t.Errorf("TotalPoints = %d, expected 3", got)
	}
}

func TestEngineRejectedSpendKeepsPoints(t *testing.T) {
	e := New(DefaultConfig(), 5)

	if e.ApplyInput(Hold{Slot: 0}) {
		t.Error("hold accepted with no points")
	}
	if e.ApplyInput(Exchange{}) {
		t.Error("exchange accepted with no points")
	}
	if got := e.Snapshot().Points.TotalPoints; got != 0 {
		t.Fatalf("TotalPoints = %d after rejected spends, expected 0", got)
	}

	e.AwardAchievement(100)
	if !e.ApplyInput(Hold{Slot: 0}) {
		t.Fatal("affordable hold rejected")
	}
	if got := e.Snapshot().Points.TotalPoints; got != 80 {
		t.Fatalf("TotalPoints = %d after hold, expected 80", got)
	}
	if e.ApplyInput(Hold{Slot: 1}) {
		t.Error("second hold in one piece lifetime accepted")
	}
	if got := e.Snapshot().Points.TotalPoints; got != 80 {
		t.Errorf("TotalPoints = %d after rejected hold, expected 80", got)
	}
}

func TestEngineExchangeCostEscalates(t *testing.T) {
	e := New(DefaultConfig(), 6)
	e.AwardAchievement(1000)

	want := []int{975, 925, 825, 625, 225}
	for i, w := range want {
		if !e.ApplyInput(Exchange{}) {
			t.Fatalf("exchange %d rejected", i)
		}
		if got := e.Snapshot().Points.TotalPoints; got != w {
			t.Errorf("after exchange %d TotalPoints = %d, expected %d", i, got, w)
		}
	}
	if e.ApplyInput(Exchange{}) {
		t.Error("exchange accepted at 225 points with a 400 cost")
	}

	e.ApplyInput(HardDrop{})
	if got := e.Snapshot().Points.ExchangeCount; got != 0 {
		t.Errorf("ExchangeCount = %d after lock, expected 0", got)
	}
	before := e.Snapshot().Points.TotalPoints
	if !e.ApplyInput(Exchange{}) {
		t.Fatal("exchange after lock rejected")
	}
	if spent := before - e.Snapshot().Points.TotalPoints; spent != 25 {
		t.Errorf("first exchange after lock cost %d, expected 25", spent)
	}
}

func TestEngineSnapshotDoesNotShiftExchange(t *testing.T) {
	looked := New(DefaultConfig(), 7)
	blind := New(DefaultConfig(), 7)
	for _, e := range []*Engine{looked, blind} {
		for range 3 {
			e.ApplyInput(HardDrop{})
			e.Tick(0)
		}
		e.AwardAchievement(1000)
	}

	looked.Snapshot()
	if !looked.ApplyInput(Exchange{}) || !blind.ApplyInput(Exchange{}) {
		t.Fatal("exchange rejected")
	}
	for range 10 {
		looked.ApplyInput(HardDrop{})
		looked.Tick(0)
		blind.ApplyInput(HardDrop{})
		blind.Tick(0)
	}

	// Lookahead may have shuffled a cycle early; the draws must still match.
	ignoreBag := cmpopts.IgnoreFields(Snapshot{}, "Bag")
	if diff := cmp.Diff(blind.Snapshot(), looked.Snapshot(), ignoreBag); diff != "" {
		t.Errorf("Snapshot() changed later play (-blind +looked):\n%s", diff)
	}
}

func TestEngineFeverMakesSpendsFree(t *testing.T) {
	e := New(DefaultConfig(), 7)
	if !e.ActivateFever(10 * time.Second) {
		t.Fatal("ActivateFever rejected")
	}
	if !e.ApplyInput(Exchange{}) || !e.ApplyInput(Hold{Slot: 1}) {
		t.Fatal("spends rejected during fever")
	}
	snap := e.Snapshot()
	if snap.Points.TotalPoints != 0 || snap.Points.ExchangeCount != 1 {
		t.Errorf("points = %+v, expected 0 total and 1 exchange", snap.Points)
	}

	out := e.Tick(frame)
	if !out.FeverStarted {
		t.Error("FeverStarted not reported")
	}
	out = e.Tick(10 * time.Second)
	if !out.FeverEnded || e.FeverActive() {
		t.Error("fever did not end after its duration")
	}
}

func TestEngineLineClearScoring(t *testing.T) {
	e := New(DefaultConfig(), 8)
	fillRow(&e.ctrl.field, 19, 3, 4, 5, 6)
	e.ctrl.piece = SpawnPiece(KindI)

	e.ApplyInput(HardDrop{})
	out := e.Tick(0)
	if len(out.ClearedRows) != 1 || out.ClearedRows[0] != 19 {
		t.Fatalf("ClearedRows = %v, expected [19]", out.ClearedRows)
	}
	if out.ScoreDelta != 100 || out.Spin != nil {
		t.Errorf("ScoreDelta = %d spin %v, expected 100 and no spin", out.ScoreDelta, out.Spin)
	}

	// A second clear in a row adds the combo bonus.
	fillRow(&e.ctrl.field, 19, 3, 4, 5, 6)
	e.ctrl.piece = SpawnPiece(KindI)
	e.ApplyInput(HardDrop{})
	out = e.Tick(0)
	if out.ScoreDelta != 150 {
		t.Errorf("combo ScoreDelta = %d, expected 150", out.ScoreDelta)
	}
	if snap := e.Snapshot(); snap.Combo != 2 || snap.BackToBack != 0 {
		t.Errorf("Combo = %d BackToBack = %d, expected 2/0", snap.Combo, snap.BackToBack)
	}
}

func TestEngineTetrisAndLevelUp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinesPerLevel = 1
	e := New(cfg, 9)
	for y := 16; y < Height; y++ {
		fillRow(&e.ctrl.field, y, 0)
	}
	e.ctrl.piece = Piece{Kind: KindI, X: -2, Y: 0, Rotation: 1}

	e.ApplyInput(HardDrop{})
	out := e.Tick(0)
	if len(out.ClearedRows) != 4 || out.ScoreDelta != 800 {
		t.Fatalf("rows %v score %d, expected 4 rows and 800", out.ClearedRows, out.ScoreDelta)
	}
	if !out.LevelUp {
		t.Error("LevelUp not reported")
	}
	snap := e.Snapshot()
	if snap.Level != 5 || snap.DropInterval != 800*time.Millisecond {
		t.Errorf("level %d interval %v, expected 5/800ms", snap.Level, snap.DropInterval)
	}
	if snap.BackToBack != 1 {
		t.Errorf("BackToBack = %d, expected 1", snap.BackToBack)
	}
}

func TestEngineSpinPromotion(t *testing.T) {
	e := New(DefaultConfig(), 10)
	e.ctrl.field = tSlotField()
	e.ctrl.piece = Piece{Kind: KindT, X: 2, Y: 16, Rotation: 1}

	if !e.ApplyInput(Rotate{Clockwise: true}) {
		t.Fatal("rotation rejected")
	}
	e.ApplyInput(HardDrop{})
	out := e.Tick(0)

	if out.Spin == nil || out.Spin.Label() != "T-Spin Double" {
		t.Fatalf("Spin = %v, expected T-Spin Double", out.Spin)
	}
	if out.Promotion == nil || out.Promotion.Jumped != 2 {
		t.Fatalf("Promotion = %+v, expected a two-rank jump", out.Promotion)
	}
	if out.ScoreDelta != 6000 {
		t.Errorf("ScoreDelta = %d, expected 5000 spin + 1000 rank bonus", out.ScoreDelta)
	}
	if out.PointsDelta != 201 {
		t.Errorf("PointsDelta = %d, expected 1 placement + 200 rank bonus", out.PointsDelta)
	}
	if out.Promotion.To.Name != "Stacker" {
		t.Errorf("promoted to %q, expected Stacker", out.Promotion.To.Name)
	}
	// The rank bonus itself lifts the score to 6000 without a second
	// promotion being paid.
	snap := e.Snapshot()
	if snap.Score != 6000 || snap.Rank.Name != "Builder" || snap.LastSpin.Type != SpinT {
		t.Errorf("score %d rank %q last spin %v", snap.Score, snap.Rank.Name, snap.LastSpin.Type)
	}
}

func TestEngineFeverMultipliesScore(t *testing.T) {
	e := New(DefaultConfig(), 11)
	e.ActivateFever(0)
	fillRow(&e.ctrl.field, 19, 3, 4, 5, 6)
	e.ctrl.piece = SpawnPiece(KindI)

	e.ApplyInput(HardDrop{})
	out := e.Tick(0)
	if out.ScoreDelta != 400 {
		t.Errorf("fever ScoreDelta = %d, expected 400", out.ScoreDelta)
	}
}

func TestEngineFeverTriggersFromLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeverLines = 1
	e := New(cfg, 12)
	fillRow(&e.ctrl.field, 19, 3, 4, 5, 6)
	e.ctrl.piece = SpawnPiece(KindI)

	e.ApplyInput(HardDrop{})
	out := e.Tick(0)
	if !out.FeverStarted || !e.FeverActive() {
		t.Error("clearing the trigger line count did not start fever")
	}
}

func TestEngineClearBottomRow(t *testing.T) {
	e := New(DefaultConfig(), 13)
	e.ctrl.field[19][0] = CellOf(KindZ)

	if e.ApplyInput(ClearBottomRow{}) {
		t.Fatal("ClearBottomRow accepted without points")
	}
	e.AwardAchievement(200)
	if !e.ApplyInput(ClearBottomRow{}) {
		t.Fatal("ClearBottomRow rejected")
	}
	snap := e.Snapshot()
	if snap.Points.TotalPoints != 50 || !snap.Field[19][0].Empty() {
		t.Errorf("points %d, bottom cell %v", snap.Points.TotalPoints, snap.Field[19][0])
	}
}

func TestEngineAwardAchievementClamps(t *testing.T) {
	e := New(DefaultConfig(), 14)
	if got := e.AwardAchievement(1); got != 10 {
		t.Errorf("AwardAchievement(1) = %d, expected 10", got)
	}
	if got := e.AwardAchievement(5000); got != 1000 {
		t.Errorf("AwardAchievement(5000) = %d, expected 1000", got)
	}
}

func TestEngineGameOverAcceptsOnlyReset(t *testing.T) {
	e := New(DefaultConfig(), 15)
	for y := 2; y < Height; y++ {
		fillRow(&e.ctrl.field, y, Width-1)
	}
	e.ApplyInput(HardDrop{})
	if out := e.Tick(frame); !out.GameOver {
		t.Fatal("GameOver not reported")
	}

	before := e.Snapshot()
	if e.ApplyInput(Move{DX: 1}) || e.ApplyInput(HardDrop{}) || e.ApplyInput(Exchange{}) {
		t.Error("input accepted after game over")
	}
	if e.ActivateFever(time.Second) || e.AwardAchievement(100) != 0 {
		t.Error("host hooks accepted after game over")
	}
	e.Tick(time.Minute)
	after := e.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("state changed after game over (-before +after):\n%s", diff)
	}

	e.Reset()
	snap := e.Snapshot()
	if snap.GameOver || snap.Score != 0 || snap.Field.Count() != 0 || !snap.HasPiece {
		t.Errorf("Reset() left state %+v", snap)
	}
}

func TestEngineRestoreResumesExactly(t *testing.T) {
	e1 := New(DefaultConfig(), 2718)
	script(t, e1, 900)
	saved := e1.Snapshot()

	e2 := New(DefaultConfig(), 1)
	if err := e2.Restore(saved); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if diff := cmp.Diff(saved, e2.Snapshot()); diff != "" {
		t.Fatalf("restored snapshot differs (-saved +restored):\n%s", diff)
	}

	script(t, e1, 900)
	script(t, e2, 900)
	if diff := cmp.Diff(e1.Snapshot(), e2.Snapshot()); diff != "" {
		t.Errorf("resumed game diverged (-original +resumed):\n%s", diff)
	}
}

func TestEngineRestoreRejectsCorruptSnapshot(t *testing.T) {
	e := New(DefaultConfig(), 16)
	good := e.Snapshot()

	corrupt := map[string]func(s *Snapshot){
		"level":      func(s *Snapshot) { s.Level = 0 },
		"cell":       func(s *Snapshot) { s.Field[5][5] = Cell(42) },
		"piece kind": func(s *Snapshot) { s.Piece.Kind = Kind(8) },
		"overlap": func(s *Snapshot) {
			b := s.Piece.Blocks()[0]
			s.Field[b.Y][b.X] = CellOf(KindO)
		},
		"full row":  func(s *Snapshot) { fillRow(&s.Field, 19) },
		"hold kind": func(s *Snapshot) { s.Hold[1] = HoldSlot{Kind: Kind(7), Filled: true} },
		"no piece":  func(s *Snapshot) { s.HasPiece = false },
		"bag rng":   func(s *Snapshot) { s.Bag.RNG = []byte("junk") },
		"pick rng":  func(s *Snapshot) { s.Bag.PickRNG = nil },
	}
	for name, mutate := range corrupt {
		t.Run(name, func(t *testing.T) {
			s := good
			s.Bag.RNG = append([]byte(nil), good.Bag.RNG...)
			mutate(&s)
			if err := e.Restore(s); err == nil {
				t.Error("Restore() accepted a corrupt snapshot")
			}
			if diff := cmp.Diff(good, e.Snapshot()); diff != "" {
				t.Errorf("rejected Restore() changed state:\n%s", diff)
			}
		})
	}
}
