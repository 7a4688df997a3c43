package config

// LevelProgression calculates the level reached after a number of cleared
// lines.
type LevelProgression struct {
	cfg        DifficultyConfig
	startLevel int
}

// NewLevelProgression creates a new level progression.
func NewLevelProgression(cfg DifficultyConfig) *LevelProgression {
	return &LevelProgression{
		cfg:        cfg,
		startLevel: clampLevel(cfg.StartLevel),
	}
}

// SetStartLevel overrides the start level, clamped to 1..30.
func (p *LevelProgression) SetStartLevel(level int) {
	p.startLevel = clampLevel(level)
}

// SetEnabled enables or disables level progression.
func (p *LevelProgression) SetEnabled(enabled bool) {
	p.cfg.Enabled = enabled
}

// IsEnabled returns whether level progression is active.
func (p *LevelProgression) IsEnabled() bool {
	return p.cfg.Enabled && p.cfg.Progression.Type == "lines" && p.cfg.Progression.LinesPerLevel > 0
}

// StartLevel returns the level a game begins at.
func (p *LevelProgression) StartLevel() int {
	return p.startLevel
}

// LinesPerLevel returns the cleared lines needed per level, or 0 when the
// level is fixed.
func (p *LevelProgression) LinesPerLevel() int {
	if !p.IsEnabled() {
		return 0
	}
	return p.cfg.Progression.LinesPerLevel
}

// Level returns the level after lines cleared lines.
func (p *LevelProgression) Level(lines int) int {
	per := p.LinesPerLevel()
	if per == 0 || lines <= 0 {
		return p.startLevel
	}
	return clampLevel(p.startLevel + lines/per)
}

// LinesToNext returns the lines still needed for the next level, or 0 when
// the level cannot rise any further.
func (p *LevelProgression) LinesToNext(lines int) int {
	per := p.LinesPerLevel()
	if per == 0 || p.Level(lines) >= MaxLevel {
		return 0
	}
	lines = max(lines, 0)
	return per - lines%per
}

// clampLevel restricts a level to [MinLevel, MaxLevel].
func clampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}
