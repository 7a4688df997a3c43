package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the default blockfall configuration.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Engine: EngineConfig{
			LockDelayMs:   500,
			MaxLockResets: 15,
			Lookahead:     5,
		},
		Scoring: ScoringConfig{
			LineScores: []int{0, 100, 300, 500, 800},
			ComboBonus: 50,
		},
		Points: PointsConfig{
			Placement:      1,
			SoftDropRate:   1,
			HardDropRate:   2,
			AchievementMin: 10,
			AchievementMax: 1000,
			HoldCost:       20,
			ClearRowCost:   150,
			ExchangeCosts:  []int{25, 50, 100, 200, 400},
			RankScoreBonus: 500,
			RankPointBonus: 100,
		},
		Fever: FeverConfig{
			LinesToTrigger: 40,
			DurationMs:     20000,
			Multiplier:     4,
		},
		Ranks: []RankConfig{
			{"Novice", 0},
			{"Apprentice", 1000},
			{"Stacker", 3000},
			{"Builder", 6000},
			{"Architect", 10000},
			{"Engineer", 15000},
			{"Tactician", 25000},
			{"Strategist", 40000},
			{"Expert", 60000},
			{"Master", 85000},
			{"Grandmaster", 120000},
			{"Legend", 160000},
			{"Mythic", 220000},
			{"Transcendent", 300000},
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			StartLevel: 1,
			Progression: ProgressionConfig{
				Type:          "lines",
				LinesPerLevel: 10,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBlockfallYAML
}
