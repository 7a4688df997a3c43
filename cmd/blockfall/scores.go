package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockfall/internal/config"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode.
Without a mode, shows a summary of every mode played so far.

Examples:
  blockfall scores
  blockfall scores marathon
  blockfall scores zen --limit 25
  blockfall scores rush --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores for the mode")
}

func runScores(_ *cobra.Command, args []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available modes.")
		store.Close()
		os.Exit(1)
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s.\n", gameID)
		return
	}

	// Get mode title
	game, err := registry.Create(gameID, config.DefaultBlockfallConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	title := game.Title()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockfall play %s' to set the first high score!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-9s  %-5s  %-3s  %-11s  %-10s  %s\n", "#", "Score", "Lines", "Lvl", "Rank", "Player", "Date")
	fmt.Printf("  %-4s  %-9s  %-5s  %-3s  %-11s  %-10s  %s\n", "-", "-----", "-----", "---", "----", "------", "----")

	for i, e := range scores {
		player := e.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-9d  %-5d  %-3d  %-11s  %-10s  %s\n",
			i+1, e.Score, e.Lines, e.Level, e.Rank, player, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.0f  Lines: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.TotalLines)
	}
}

// printSummary prints one line per mode that has recorded scores.
func printSummary(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-10s  %-6s  %-9s  %-9s  %-7s  %-3s  %s\n", "Mode", "Games", "Best", "Average", "Lines", "Lvl", "Last played")
	fmt.Printf("  %-10s  %-6s  %-9s  %-9s  %-7s  %-3s  %s\n", "----", "-----", "----", "-------", "-----", "---", "-----------")

	// registry.List is sorted, which keeps the output stable
	for _, g := range registry.List() {
		s, ok := all[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s  %-6d  %-9d  %-9.0f  %-7d  %-3d  %s\n",
			g.ID, s.GamesCount, s.HighScore, s.AvgScore, s.TotalLines, s.BestLevel, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
