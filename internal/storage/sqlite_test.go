package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openTestStore opens a fresh database under t.TempDir.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.SaveScore("marathon", 100)
	store.Close()

	// Migrations must be repeatable
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("marathon")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 100 {
		t.Errorf("Expected high score 100 after reopen, got %d", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	// Save some scores
	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("marathon", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different mode
	if _, err := store.SaveScore("zen", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("marathon", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	zenScores, err := store.TopScores("zen", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(zenScores) != 1 {
		t.Errorf("Expected 1 zen score, got %d", len(zenScores))
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{
		GameID: "marathon",
		Player: "alice",
		Score:  12400,
		Lines:  42,
		Level:  5,
		Rank:   "Builder",
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveRun() id = %d, expected a positive id", id)
	}

	scores, err := store.TopScores("marathon", 1)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score, got %d", len(scores))
	}

	got := scores[0]
	if got.ID != id || got.Player != "alice" || got.Lines != 42 || got.Level != 5 || got.Rank != "Builder" {
		t.Errorf("TopScores()[0] = %+v, expected the saved run", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// A non-positive limit falls back to 10
	for i := 0; i < 10; i++ {
		store.SaveScore("test", i)
	}
	scores, err = store.TopScores("test", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("rush")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	// Add scores
	store.SaveScore("rush", 100)
	store.SaveScore("rush", 300)
	store.SaveScore("rush", 200)

	high, err = store.HighScore("rush")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("marathon", 100)
	store.SaveScore("marathon", 200)
	store.SaveScore("zen", 300)

	// Clear only marathon scores
	if err := store.ClearScores("marathon"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	marathonScores, _ := store.TopScores("marathon", 10)
	if len(marathonScores) != 0 {
		t.Errorf("Expected 0 marathon scores after clear, got %d", len(marathonScores))
	}

	// Zen should still have scores
	zenScores, _ := store.TopScores("zen", 10)
	if len(zenScores) != 1 {
		t.Errorf("Zen scores should not be affected by clearing marathon")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	// Add many scores
	for i := 0; i < 20; i++ {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	// Empty mode
	stats, err := store.GetGameStats("marathon")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || stats.HighScore != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("GetGameStats() on empty mode = %+v, expected zero stats", stats)
	}

	store.SaveRun(RunRecord{GameID: "marathon", Score: 100, Lines: 10, Level: 2})
	store.SaveRun(RunRecord{GameID: "marathon", Score: 300, Lines: 30, Level: 4})
	store.SaveRun(RunRecord{GameID: "zen", Score: 1000, Lines: 99, Level: 1})

	stats, err = store.GetGameStats("marathon")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("GamesCount = %d, expected 2", stats.GamesCount)
	}
	if stats.HighScore != 300 {
		t.Errorf("HighScore = %d, expected 300", stats.HighScore)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, expected 200", stats.AvgScore)
	}
	if stats.TotalScore != 400 || stats.TotalLines != 40 || stats.BestLevel != 4 {
		t.Errorf("totals = %d/%d/%d, expected 400/40/4", stats.TotalScore, stats.TotalLines, stats.BestLevel)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAllGamesStats() returned %d modes, expected 2", len(all))
	}
	if all["zen"].HighScore != 1000 || all["zen"].TotalLines != 99 {
		t.Errorf("zen stats = %+v", all["zen"])
	}
}

func TestStoreSaveGame(t *testing.T) {
	store := openTestStore(t)

	if _, _, err := store.LoadGame("local"); !errors.Is(err, ErrNoSave) {
		t.Fatalf("LoadGame() on empty store error = %v, expected ErrNoSave", err)
	}

	if err := store.SaveGame("local", "marathon", 100, []byte("first")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	// Saving again under the same name replaces the save
	if err := store.SaveGame("local", "zen", 250, []byte("second")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	gameID, data, err := store.LoadGame("local")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if gameID != "zen" || string(data) != "second" {
		t.Errorf("LoadGame() = %q, %q, expected zen, second", gameID, data)
	}

	saves, err := store.ListGames()
	if err != nil {
		t.Fatalf("ListGames() failed: %v", err)
	}
	if len(saves) != 1 || saves[0].Name != "local" || saves[0].Score != 250 {
		t.Errorf("ListGames() = %+v, expected one save named local", saves)
	}

	if err := store.DeleteGame("local"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, _, err := store.LoadGame("local"); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadGame() after delete error = %v, expected ErrNoSave", err)
	}

	// Deleting a missing save is fine
	if err := store.DeleteGame("missing"); err != nil {
		t.Errorf("DeleteGame() on missing save failed: %v", err)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.blockfall/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".blockfall", "test.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
