// Package core provides the terminal-independent types shared by the game
// and its hosts: the character screen, input actions and runtime settings.
// It has no external dependencies so game logic stays pure and testable.
package core

// Rect is an axis-aligned area of the screen, used for panel layout.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle with the given position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// CenterIn returns a w x h rectangle centred inside an outerW x outerH area.
// Offsets never go negative when the area is too small.
func CenterIn(outerW, outerH, w, h int) Rect {
	return Rect{X: max((outerW-w)/2, 0), Y: max((outerH-h)/2, 0), W: w, H: h}
}
