package engine

import "time"

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 30
)

// levelIntervals is the gravity interval in milliseconds for levels 1..30.
var levelIntervals = [MaxLevel]int{
	1000, 950, 900, 850, 800, 750, 700, 660, 620, 580,
	540, 500, 470, 440, 410, 380, 360, 340, 320, 300,
	285, 270, 255, 240, 230, 220, 215, 210, 205, 200,
}

// ClampLevel folds n into MinLevel..MaxLevel.
func ClampLevel(n int) int {
	return min(max(n, MinLevel), MaxLevel)
}

// LevelInterval returns the gravity interval for level n. Levels outside
// the table use the nearest entry.
func LevelInterval(n int) time.Duration {
	return time.Duration(levelIntervals[ClampLevel(n)-1]) * time.Millisecond
}
