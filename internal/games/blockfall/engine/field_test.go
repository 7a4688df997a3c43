package engine

import (
	"testing"
)

func fillRow(f *Field, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < Width; x++ {
		if !skip[x] {
			f[y][x] = CellOf(KindJ)
		}
	}
}

func TestPieceShapes(t *testing.T) {
	for _, k := range AllKinds {
		for rot := 0; rot < 4; rot++ {
			seen := make(map[Block]bool)
			for _, b := range Blocks(k, rot) {
				if b.X < 0 || b.X > 3 || b.Y < 0 || b.Y > 3 {
					t.Errorf("%s rotation %d: block %v outside the 4x4 box", k, rot, b)
				}
				if seen[b] {
					t.Errorf("%s rotation %d: duplicate block %v", k, rot, b)
				}
				seen[b] = true
			}
		}
	}

	if Blocks(KindO, 0) != Blocks(KindO, 3) {
		t.Error("O blocks differ between rotations")
	}
	if RotationCount(KindO) != 1 || RotationCount(KindT) != 4 {
		t.Errorf("RotationCount() = %d/%d, expected 1/4", RotationCount(KindO), RotationCount(KindT))
	}
	if Blocks(KindT, 5) != Blocks(KindT, 1) || Blocks(KindT, -1) != Blocks(KindT, 3) {
		t.Error("rotation index is not normalised")
	}
}

func TestIsLegal(t *testing.T) {
	var f Field
	f[10][4] = CellOf(KindT)

	tests := []struct {
		name   string
		blocks []Block
		want   bool
	}{
		{"inside", []Block{{0, 0}, {9, 19}}, true},
		{"left edge", []Block{{-1, 5}}, false},
		{"right edge", []Block{{10, 5}}, false},
		{"below floor", []Block{{3, 20}}, false},
		{"above top", []Block{{3, -1}}, false},
		{"overlap", []Block{{4, 10}}, false},
		{"next to block", []Block{{5, 10}, {4, 9}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IsLegal(tt.blocks); got != tt.want {
				t.Errorf("IsLegal(%v) = %v, expected %v", tt.blocks, got, tt.want)
			}
		})
	}
}

func TestUnoccupiedIgnoresRowsAboveField(t *testing.T) {
	var f Field
	if !f.Unoccupied([]Block{{4, -1}, {4, -2}}) {
		t.Error("blocks above the field should count as unoccupied")
	}
	if InBounds([]Block{{4, -1}}) {
		t.Error("blocks above the field should not be in bounds")
	}
}

func TestCommitAndCompletedRows(t *testing.T) {
	var f Field
	fillRow(&f, 19, 3, 4, 5, 6)
	if rows := f.CompletedRows(); len(rows) != 0 {
		t.Fatalf("CompletedRows() = %v before commit, expected none", rows)
	}

	f.Commit(Piece{Kind: KindI, X: 3, Y: 18})
	rows := f.CompletedRows()
	if len(rows) != 1 || rows[0] != 19 {
		t.Errorf("CompletedRows() = %v, expected [19]", rows)
	}
	if f[19][3].Kind() != KindI {
		t.Errorf("committed cell kind = %s, expected I", f[19][3].Kind())
	}
}

func TestClearShift(t *testing.T) {
	var f Field
	fillRow(&f, 18)
	fillRow(&f, 19)
	f[17][4] = CellOf(KindT)
	f[5][0] = CellOf(KindS)

	f.Clear([]int{18, 19})

	if f[19][4].Kind() != KindT || f[19][4].Empty() {
		t.Errorf("row 17 mark did not move to row 19, got %v", f[19][4])
	}
	if f[7][0].Kind() != KindS || f[7][0].Empty() {
		t.Errorf("row 5 mark did not move to row 7, got %v", f[7][0])
	}
	if !f[17][4].Empty() || !f[5][0].Empty() {
		t.Error("old positions should be empty after the shift")
	}
	for y := 0; y < 2; y++ {
		if !f.RowEmpty(y) {
			t.Errorf("row %d should be empty after clearing two rows", y)
		}
	}
	if got := f.Count(); got != 2 {
		t.Errorf("Count() = %d, expected 2", got)
	}
	if rows := f.CompletedRows(); len(rows) != 0 {
		t.Errorf("CompletedRows() = %v after clear, expected none", rows)
	}
}

func TestClearNonAdjacentRows(t *testing.T) {
	var f Field
	fillRow(&f, 15)
	fillRow(&f, 19)
	f[16][1] = CellOf(KindL)
	f[18][2] = CellOf(KindZ)

	f.Clear([]int{15, 19})

	if f[17][1].Empty() {
		t.Error("row 16 mark should shift by one to row 17")
	}
	if f[19][2].Empty() {
		t.Error("row 18 mark should shift by one to row 19")
	}
}

func TestClearPanicsOutsideField(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Clear() with an out-of-range row should panic")
		}
	}()
	var f Field
	f.Clear([]int{Height})
}

func TestCanSpawn(t *testing.T) {
	var f Field
	for _, k := range AllKinds {
		if !f.CanSpawn(k) {
			t.Errorf("CanSpawn(%s) = false on an empty field", k)
		}
	}

	f[0][4] = CellOf(KindO)
	if f.CanSpawn(KindT) {
		t.Error("T should not spawn over (4,0)")
	}
	if !f.CanSpawn(KindI) {
		t.Error("I should spawn, it only uses row 1")
	}
}
