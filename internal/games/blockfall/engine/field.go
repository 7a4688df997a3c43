package engine

import "fmt"

// Playfield dimensions.
const (
	Width  = 10
	Height = 20
)

// Cell is one field square: 0 when empty, otherwise the placed kind plus one.
type Cell uint8

// CellOf returns the cell value recording a block of kind.
func CellOf(kind Kind) Cell {
	return Cell(kind + 1)
}

// Empty reports whether nothing occupies the cell.
func (c Cell) Empty() bool {
	return c == 0
}

// Kind returns the kind that filled the cell. Only meaningful when !Empty().
func (c Cell) Kind() Kind {
	return Kind(c - 1)
}

// Field is the grid of placed blocks, row 0 at the top.
type Field [Height][Width]Cell

// InBounds reports whether every block lies inside the field.
func InBounds(blocks []Block) bool {
	for _, b := range blocks {
		if b.X < 0 || b.X >= Width || b.Y < 0 || b.Y >= Height {
			return false
		}
	}
	return true
}

// Unoccupied reports whether no block overlaps a placed cell. Blocks above
// the top row count as free; blocks past the other edges are skipped.
func (f *Field) Unoccupied(blocks []Block) bool {
	for _, b := range blocks {
		if b.Y < 0 || b.Y >= Height || b.X < 0 || b.X >= Width {
			continue
		}
		if !f[b.Y][b.X].Empty() {
			return false
		}
	}
	return true
}

// IsLegal reports whether blocks are in bounds and unoccupied.
func (f *Field) IsLegal(blocks []Block) bool {
	return InBounds(blocks) && f.Unoccupied(blocks)
}

// Fits reports whether the piece could occupy its current pose.
func (f *Field) Fits(p Piece) bool {
	blocks := p.Blocks()
	return f.IsLegal(blocks[:])
}

// Filled reports whether (x, y) is occupied. Positions outside the field
// count as filled, which is what the spin corner test needs.
func (f *Field) Filled(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return true
	}
	return !f[y][x].Empty()
}

// Commit writes the piece's in-bounds blocks into the field.
func (f *Field) Commit(p Piece) {
	cell := CellOf(p.Kind)
	for _, b := range p.Blocks() {
		if b.X < 0 || b.X >= Width || b.Y < 0 || b.Y >= Height {
			continue
		}
		f[b.Y][b.X] = cell
	}
}

// rowFull reports whether every cell in row y is occupied.
func (f *Field) rowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if f[y][x].Empty() {
			return false
		}
	}
	return true
}

// RowEmpty reports whether row y has no occupied cells.
func (f *Field) RowEmpty(y int) bool {
	for x := 0; x < Width; x++ {
		if !f[y][x].Empty() {
			return false
		}
	}
	return true
}

// CompletedRows returns the indices of full rows in ascending order.
func (f *Field) CompletedRows() []int {
	var rows []int
	for y := 0; y < Height; y++ {
		if f.rowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// Clear removes rows in a single shift: surviving rows keep their order and
// settle at the bottom, and len(rows) empty rows appear at the top.
// Panics if a row index is outside the field.
func (f *Field) Clear(rows []int) {
	if len(rows) == 0 {
		return
	}
	var drop [Height]bool
	for _, y := range rows {
		if y < 0 || y >= Height {
			panic(fmt.Sprintf("blockfall: clear row %d outside field", y))
		}
		drop[y] = true
	}

	var next Field
	dst := Height - 1
	for y := Height - 1; y >= 0; y-- {
		if drop[y] {
			continue
		}
		next[dst] = f[y]
		dst--
	}
	*f = next
}

// CanSpawn reports whether a piece of kind fits at the spawn pose.
func (f *Field) CanSpawn(kind Kind) bool {
	return f.Fits(SpawnPiece(kind))
}

// Count returns the number of occupied cells.
func (f *Field) Count() int {
	n := 0
	for y := range f {
		for x := range f[y] {
			if !f[y][x].Empty() {
				n++
			}
		}
	}
	return n
}
