// Package config provides YAML-based rules loading and difficulty presets
// for blockfall.
package config

import (
	"errors"
	"fmt"
)

// BlockfallConfig contains every tunable rule of a blockfall game.
type BlockfallConfig struct {
	Engine     EngineConfig     `yaml:"engine"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Points     PointsConfig     `yaml:"points"`
	Fever      FeverConfig      `yaml:"fever"`
	Ranks      []RankConfig     `yaml:"ranks"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// EngineConfig defines piece handling parameters.
type EngineConfig struct {
	LockDelayMs   int `yaml:"lock_delay_ms"`
	MaxLockResets int `yaml:"max_lock_resets"`
	Lookahead     int `yaml:"lookahead"` // next pieces shown
}

// ScoringConfig defines the score awarded for line clears.
type ScoringConfig struct {
	LineScores []int `yaml:"line_scores"` // indexed by cleared lines 0..4, scaled by level
	ComboBonus int   `yaml:"combo_bonus"`
}

// PointsConfig defines the point economy.
type PointsConfig struct {
	Placement      int   `yaml:"placement"`
	SoftDropRate   int   `yaml:"soft_drop_rate"`
	HardDropRate   int   `yaml:"hard_drop_rate"`
	AchievementMin int   `yaml:"achievement_min"`
	AchievementMax int   `yaml:"achievement_max"`
	HoldCost       int   `yaml:"hold_cost"`
	ClearRowCost   int   `yaml:"clear_row_cost"`
	ExchangeCosts  []int `yaml:"exchange_costs"`
	RankScoreBonus int   `yaml:"rank_score_bonus"`
	RankPointBonus int   `yaml:"rank_point_bonus"`
}

// FeverConfig defines fever mode.
type FeverConfig struct {
	LinesToTrigger int `yaml:"lines_to_trigger"` // 0 disables fever
	DurationMs     int `yaml:"duration_ms"`
	Multiplier     int `yaml:"multiplier"`
}

// RankConfig is one step of the rank ladder.
type RankConfig struct {
	Name      string `yaml:"name"`
	Threshold int    `yaml:"threshold"`
}

// DifficultyConfig defines the level progression system.
type DifficultyConfig struct {
	Enabled     bool              `yaml:"enabled"`
	StartLevel  int               `yaml:"start_level"` // 1..30
	Progression ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines how the level increases.
type ProgressionConfig struct {
	Type          string `yaml:"type"`            // "lines" or "none"
	LinesPerLevel int    `yaml:"lines_per_level"` // cleared lines per level
}

// Level bounds shared with the engine's gravity table.
const (
	MinLevel = 1
	MaxLevel = 30
)

// RankCount is the number of ranks a ladder must have.
const RankCount = 14

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// StartLevelForPreset returns the start level for a difficulty preset.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 5
	case DifficultyHard:
		return 10
	default:
		return MinLevel
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyBlockfallPreset modifies the config based on a difficulty preset.
// The fixed preset keeps the configured start level.
func ApplyBlockfallPreset(cfg *BlockfallConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.StartLevel = StartLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Engine.LockDelayMs = 750
		cfg.Difficulty.Progression.LinesPerLevel = 15
	case DifficultyHard:
		cfg.Engine.LockDelayMs = 350
		cfg.Fever.LinesToTrigger = 60
	}
}

// Validate checks the config for values the engine cannot run with.
func (c BlockfallConfig) Validate() error {
	var errs []error

	if c.Engine.LockDelayMs < 0 {
		errs = append(errs, fmt.Errorf("engine.lock_delay_ms must not be negative, got %d", c.Engine.LockDelayMs))
	}
	if c.Engine.MaxLockResets < 0 {
		errs = append(errs, fmt.Errorf("engine.max_lock_resets must not be negative, got %d", c.Engine.MaxLockResets))
	}
	if c.Engine.Lookahead < 1 || c.Engine.Lookahead > 7 {
		errs = append(errs, fmt.Errorf("engine.lookahead must be in 1..7, got %d", c.Engine.Lookahead))
	}

	if len(c.Scoring.LineScores) != 5 {
		errs = append(errs, fmt.Errorf("scoring.line_scores needs 5 entries (0..4 lines), got %d", len(c.Scoring.LineScores)))
	}

	p := c.Points
	if p.AchievementMin > p.AchievementMax {
		errs = append(errs, fmt.Errorf("points.achievement_min %d exceeds achievement_max %d", p.AchievementMin, p.AchievementMax))
	}
	if p.HoldCost < 0 || p.ClearRowCost < 0 {
		errs = append(errs, errors.New("points costs must not be negative"))
	}
	if len(p.ExchangeCosts) == 0 {
		errs = append(errs, errors.New("points.exchange_costs must not be empty"))
	}
	for i := 1; i < len(p.ExchangeCosts); i++ {
		if p.ExchangeCosts[i] < p.ExchangeCosts[i-1] {
			errs = append(errs, fmt.Errorf("points.exchange_costs must be ascending, %d follows %d", p.ExchangeCosts[i], p.ExchangeCosts[i-1]))
			break
		}
	}

	if c.Fever.LinesToTrigger < 0 || c.Fever.DurationMs < 0 {
		errs = append(errs, errors.New("fever values must not be negative"))
	}
	if c.Fever.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("fever.multiplier must be at least 1, got %d", c.Fever.Multiplier))
	}

	if len(c.Ranks) != RankCount {
		errs = append(errs, fmt.Errorf("ranks needs %d entries, got %d", RankCount, len(c.Ranks)))
	} else {
		if c.Ranks[0].Threshold != 0 {
			errs = append(errs, fmt.Errorf("ranks[0] threshold must be 0, got %d", c.Ranks[0].Threshold))
		}
		for i := 1; i < len(c.Ranks); i++ {
			if c.Ranks[i].Threshold <= c.Ranks[i-1].Threshold {
				errs = append(errs, fmt.Errorf("ranks[%d] %q threshold %d is not above %d", i, c.Ranks[i].Name, c.Ranks[i].Threshold, c.Ranks[i-1].Threshold))
				break
			}
		}
	}

	d := c.Difficulty
	if d.StartLevel < MinLevel || d.StartLevel > MaxLevel {
		errs = append(errs, fmt.Errorf("difficulty.start_level must be in %d..%d, got %d", MinLevel, MaxLevel, d.StartLevel))
	}
	switch d.Progression.Type {
	case "lines":
		if d.Progression.LinesPerLevel < 1 {
			errs = append(errs, fmt.Errorf("difficulty.progression.lines_per_level must be positive, got %d", d.Progression.LinesPerLevel))
		}
	case "none":
	default:
		errs = append(errs, fmt.Errorf("difficulty.progression.type must be lines or none, got %q", d.Progression.Type))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid blockfall config: %w", errors.Join(errs...))
	}
	return nil
}
