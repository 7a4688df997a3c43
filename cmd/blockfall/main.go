// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list               - List available modes
//	blockfall play <mode>        - Play a mode
//	blockfall menu               - Pick modes interactively
//	blockfall serve              - Start SSH server for remote play
//	blockfall scores <mode>      - Show high scores for a mode
//	blockfall simulate           - Run a seeded CPU game headlessly
//	blockfall config             - Print the default rules as YAML
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.blockfall/scores.db)
//	--log <path>    - Write a debug log to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-blockfall/internal/games/blockfall"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a falling-block puzzle game for the terminal with
SRS rotation, spin bonuses, two hold slots, a point economy and a
fourteen-step rank ladder.

Available commands:
  list      - Show all available modes
  play      - Play a specific mode directly
  menu      - Interactive mode picker menu
  serve     - Start SSH server for remote play
  scores    - View high scores
  simulate  - Run a seeded CPU game without a terminal
  config    - Print the default rules

Examples:
  blockfall list
  blockfall play marathon
  blockfall play zen --resume
  blockfall menu
  blockfall serve --ssh :2222
  blockfall scores rush`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write a debug log to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a logger writing to --log, or one that discards
// everything. The terminal belongs to the game, so local play never logs
// to stderr. The returned cleanup must be called on exit.
func newLogger() (*log.Logger, func(), error) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(flagLogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}
