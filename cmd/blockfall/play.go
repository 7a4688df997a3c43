package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/core"
	"github.com/vovakirdan/tui-blockfall/internal/platform/tui"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLevel      int
	flagResume     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Modes:
  marathon  - Levels rise every 10 lines, fever after 40 lines
  zen       - Fixed level, long lock delay, no fever
  rush      - Levels rise every 5 lines, fever after 10 lines

Controls:
  Left/Right, A/D   - Move
  Down, S           - Soft drop
  Space             - Hard drop
  Up, X / Z         - Rotate clockwise / counter-clockwise
  C / V             - Hold slot 1 / 2 (costs points)
  E                 - Swap the piece for another kind (costs points)
  F                 - Clear the bottom row (costs points)
  P/Esc             - Pause
  R                 - Restart (after game over)
  Q/Ctrl+C          - Save and quit

Difficulty options:
  easy   - Start at level 1 with a longer lock delay
  normal - Start at level 5
  hard   - Start at level 10 with a short lock delay
  fixed  - No level progression

Examples:
  blockfall play marathon
  blockfall play rush --difficulty hard
  blockfall play zen --level 12
  blockfall play --resume
  blockfall play marathon --config ./my-rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start level (1-30), overrides the preset")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game")
}

// loadRules loads the rules file and applies the difficulty flags.
func loadRules() (config.BlockfallConfig, error) {
	rules, err := config.LoadBlockfall(flagConfig)
	if err != nil {
		return rules, err
	}

	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return rules, err
		}
		config.ApplyBlockfallPreset(&rules, preset)
	}
	if flagLevel != 0 {
		rules.Difficulty.StartLevel = flagLevel
	}

	return rules, rules.Validate()
}

// terminalConfig builds a runtime config sized to the terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	gameID := ""
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" && flagResume && store != nil {
		savedID, _, loadErr := store.LoadGame(tui.LocalSaveName)
		switch {
		case errors.Is(loadErr, storage.ErrNoSave):
			fmt.Fprintln(os.Stderr, "Error: there is no saved game to resume")
			os.Exit(1)
		case loadErr != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", loadErr)
			os.Exit(1)
		}
		gameID = savedID
	}
	if gameID == "" {
		fmt.Fprintln(os.Stderr, "Error: specify a mode, or --resume to continue a saved game")
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available modes.")
		os.Exit(1)
	}

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available modes.")
		os.Exit(1)
	}

	rules, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID, rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, store, terminalConfig(), tui.ModelOptions{
		SaveName: tui.LocalSaveName,
		Resume:   flagResume,
		Logger:   logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
