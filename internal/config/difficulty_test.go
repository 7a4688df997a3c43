package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelProgression(t *testing.T) {
	p := NewLevelProgression(DefaultBlockfallConfig().Difficulty)

	assert.True(t, p.IsEnabled())
	assert.Equal(t, 10, p.LinesPerLevel())

	tests := []struct {
		lines, level, toNext int
	}{
		{0, 1, 10},
		{9, 1, 1},
		{10, 2, 10},
		{47, 5, 3},
		{290, 30, 0},
		{1000, 30, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, p.Level(tt.lines), "Level(%d)", tt.lines)
		assert.Equal(t, tt.toNext, p.LinesToNext(tt.lines), "LinesToNext(%d)", tt.lines)
	}
}

func TestLevelProgressionDisabled(t *testing.T) {
	p := NewLevelProgression(DefaultBlockfallConfig().Difficulty)
	p.SetStartLevel(7)
	p.SetEnabled(false)

	assert.False(t, p.IsEnabled())
	assert.Equal(t, 0, p.LinesPerLevel())
	assert.Equal(t, 7, p.Level(500))
	assert.Equal(t, 0, p.LinesToNext(500))

	none := NewLevelProgression(DifficultyConfig{Enabled: true, StartLevel: 3, Progression: ProgressionConfig{Type: "none"}})
	assert.False(t, none.IsEnabled())
	assert.Equal(t, 3, none.Level(100))
}

func TestLevelProgressionClampsStart(t *testing.T) {
	p := NewLevelProgression(DifficultyConfig{StartLevel: 0})
	assert.Equal(t, MinLevel, p.StartLevel())
	p.SetStartLevel(99)
	assert.Equal(t, MaxLevel, p.StartLevel())
}
