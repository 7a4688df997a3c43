package blockfall

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/games/blockfall/engine"
)

const (
	cellWidth   = 2 // Screen columns per field cell
	leftPanelW  = 16
	rightPanelW = 18

	boardW = engine.Width*cellWidth + 2 // +2 for borders
	boardH = engine.Height + 2

	layoutW = leftPanelW + boardW + rightPanelW
	layoutH = boardH + 1 // title row
)

const (
	blockRune = '█'
	ghostRune = '░'
	dotRune   = '·'
)

// kindColors maps each piece kind to its display colour.
var kindColors = [engine.KindCount]core.Color{
	engine.KindI: core.ColorCyan,
	engine.KindO: core.ColorYellow,
	engine.KindT: core.ColorMagenta,
	engine.KindS: core.ColorGreen,
	engine.KindZ: core.ColorRed,
	engine.KindJ: core.ColorBlue,
	engine.KindL: core.ColorOrange,
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	s := g.eng.Snapshot()
	area := core.CenterIn(g.screenW, g.screenH, layoutW, layoutH)
	board := core.NewRect(area.X+leftPanelW, area.Y+1, boardW, boardH)

	title := strings.ToUpper(g.Title())
	dst.DrawTextColor(board.X+(boardW-len(title))/2, area.Y, title, core.ColorWhite)

	g.renderBoard(dst, board, &s)
	g.renderHold(dst, area.X, board.Y, &s)
	g.renderStats(dst, board.Right()+2, board.Y, &s)
	g.renderOverlays(dst, board, &s)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", layoutW, layoutH), core.ColorGray)
}

// renderBoard draws the border, the settled cells, the ghost and the active piece.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect, s *engine.Snapshot) {
	border := core.ColorGray
	if s.FeverRemaining > 0 {
		border = core.ColorBrightRed
	}
	dst.DrawBox(board, border)

	inner := board.Inset(1)
	for y := range engine.Height {
		for x := range engine.Width {
			cell := s.Field[y][x]
			if cell.Empty() {
				dst.SetColor(inner.X+x*cellWidth, inner.Y+y, dotRune, core.ColorGray)
				continue
			}
			drawCell(dst, inner.X+x*cellWidth, inner.Y+y, blockRune, kindColors[cell.Kind()])
		}
	}

	if !s.HasPiece {
		return
	}

	color := kindColors[s.Piece.Kind]
	if s.GhostY != s.Piece.Y {
		ghost := s.Piece
		ghost.Y = s.GhostY
		for _, b := range ghost.Blocks() {
			drawCell(dst, inner.X+b.X*cellWidth, inner.Y+b.Y, ghostRune, color)
		}
	}
	for _, b := range s.Piece.Blocks() {
		drawCell(dst, inner.X+b.X*cellWidth, inner.Y+b.Y, blockRune, color)
	}
}

// drawCell fills one field cell, which is cellWidth columns wide.
func drawCell(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellWidth {
		dst.SetColor(x+i, y, r, c)
	}
}

// drawMini draws a kind in its spawn rotation, trimmed to its occupied rows.
func drawMini(dst *core.Screen, x, y int, kind engine.Kind, c core.Color) {
	blocks := engine.Blocks(kind, 0)
	top := blocks[0].Y
	for _, b := range blocks {
		top = min(top, b.Y)
	}
	for _, b := range blocks {
		drawCell(dst, x+b.X*cellWidth, y+b.Y-top, blockRune, c)
	}
}

// renderHold draws both hold slots and the spend prices.
func (g *Game) renderHold(dst *core.Screen, x, y int, s *engine.Snapshot) {
	cfg := g.eng.Config()
	fever := s.FeverRemaining > 0

	for i, slot := range s.Hold {
		label := fmt.Sprintf("HOLD %d", i+1)
		labelColor := core.ColorWhite
		if slot.Used || !s.CanHold {
			labelColor = core.ColorGray
		}
		dst.DrawTextColor(x, y+i*4, label, labelColor)
		if slot.Filled {
			c := kindColors[slot.Kind]
			if slot.Used {
				c = core.ColorGray
			}
			drawMini(dst, x, y+i*4+1, slot.Kind, c)
		} else {
			dst.DrawTextColor(x, y+i*4+1, "--", core.ColorGray)
		}
	}

	row := y + engine.HoldSlots*4
	dst.DrawTextColor(x, row, fmt.Sprintf("Points %d", s.Points.TotalPoints), core.ColorBrightYellow)
	dst.DrawText(x, row+1, fmt.Sprintf("Hold   %d", cfg.Points.HoldPrice(fever)))
	dst.DrawText(x, row+2, fmt.Sprintf("Swap   %d", cfg.Points.ExchangeCost(s.Points.ExchangeCount, fever)))
	dst.DrawText(x, row+3, fmt.Sprintf("Clear  %d", cfg.Points.ClearRowCost))

	if fever {
		secs := int(s.FeverRemaining.Seconds() + 0.5)
		dst.DrawTextColor(x, row+5, fmt.Sprintf("FEVER x%d", cfg.FeverMultiplier), core.ColorBrightRed)
		dst.DrawTextColor(x, row+6, fmt.Sprintf("%ds left", secs), core.ColorBrightRed)
	} else if cfg.FeverLines > 0 {
		dst.DrawTextColor(x, row+5, fmt.Sprintf("Fever %d/%d", s.FeverProgress, cfg.FeverLines), core.ColorGray)
	}
}

// renderStats draws the next queue, score, rank and counters.
func (g *Game) renderStats(dst *core.Screen, x, y int, s *engine.Snapshot) {
	dst.DrawTextColor(x, y, "NEXT", core.ColorWhite)
	if len(s.Next) > 0 {
		drawMini(dst, x, y+1, s.Next[0], kindColors[s.Next[0]])
		var rest []string
		for _, k := range s.Next[1:] {
			rest = append(rest, k.String())
		}
		dst.DrawTextColor(x, y+3, strings.Join(rest, " "), core.ColorGray)
	}

	row := y + 5
	dst.DrawText(x, row, fmt.Sprintf("Score %d", s.Score))
	dst.DrawText(x, row+1, fmt.Sprintf("Lines %d", s.Lines))
	dst.DrawText(x, row+2, fmt.Sprintf("Level %d", s.Level))
	if next := g.progression.LinesToNext(s.Lines); next > 0 {
		dst.DrawTextColor(x, row+3, fmt.Sprintf(" next in %d", next), core.ColorGray)
	}

	dst.DrawTextColor(x, row+5, s.Rank.Name, core.ColorBrightYellow)
	dst.DrawText(x, row+6, progressBar(s.RankProgress, rightPanelW-4))

	if s.Combo > 1 {
		dst.DrawText(x, row+8, fmt.Sprintf("Combo x%d", s.Combo))
	}
	if s.BackToBack > 1 {
		dst.DrawText(x, row+9, fmt.Sprintf("B2B x%d", s.BackToBack))
	}
	if g.banner != "" {
		dst.DrawTextColor(x, row+11, g.banner, core.ColorBrightYellow)
	}
}

// progressBar renders pct (0-100) as a bar of width cells.
func progressBar(pct, width int) string {
	filled := pct * width / 100
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// renderOverlays draws the pause and game over boxes over the board.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect, s *engine.Snapshot) {
	var lines []string
	switch {
	case s.GameOver:
		lines = []string{"GAME OVER", fmt.Sprintf("Score %d", s.Score), "R restart", "Q quit"}
	case g.paused:
		lines = []string{"PAUSED", "P resume"}
	default:
		return
	}

	box := core.NewRect(board.X+2, board.Y+board.H/2-len(lines)/2-1, board.W-4, len(lines)+2)
	for yy := box.Y; yy < box.Bottom(); yy++ {
		for xx := box.X; xx < box.Right(); xx++ {
			dst.Set(xx, yy, ' ')
		}
	}
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		dst.DrawTextColor(box.X+(box.W-len(line))/2, box.Y+1+i, line, core.ColorWhite)
	}
}
