package core

// Color is the foreground colour of a screen cell. The platform layer maps
// each value to a terminal colour.
type Color uint8

const (
	ColorDefault Color = iota
	ColorCyan
	ColorYellow
	ColorMagenta
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorWhite
	ColorBrightYellow
	ColorBrightRed
)
