package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/scatter/internal/scene"
)

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
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created along with its directory
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(RunRecord{RunID: "a", Seed: 1, InitialShapes: 5}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	run, err := store.RunByID("a")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil || run.InitialShapes != 5 {
		t.Errorf("Expected run a with 5 initial shapes, got %+v", run)
	}
}

func TestSaveAndRetrieveRun(t *testing.T) {
	store := openTestStore(t)

	rec := RunRecord{
		RunID:           "run-1",
		Seed:            42,
		InitialShapes:   50,
		RemainingShapes: 47,
		Iterations:      10,
		Duration:        1500 * time.Millisecond,
		Removals: []RemovalRecord{
			{Iteration: 2, Survivor: "circle#0[[1,1],1]", Removed: "square#4[[2,1],1,1]"},
			{Iteration: 2, Survivor: "circle#0[[1,1],1]", Removed: "circle#9[[1,2],1]"},
			{Iteration: 7, Survivor: "square#3[[5,5],2,2]", Removed: "circle#8[[6,5],1]"},
		},
	}

	id, err := store.SaveRun(rec)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	got, err := store.RunByID("run-1")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if got.Seed != 42 || got.InitialShapes != 50 || got.RemainingShapes != 47 || got.Iterations != 10 {
		t.Errorf("Unexpected run record: %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Expected duration 1.5s, got %v", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	removals, err := store.RunRemovals("run-1")
	if err != nil {
		t.Fatalf("RunRemovals() failed: %v", err)
	}
	if len(removals) != 3 {
		t.Fatalf("Expected 3 removals, got %d", len(removals))
	}
	for i, want := range rec.Removals {
		if removals[i] != want {
			t.Errorf("Removal %d: expected %+v, got %+v", i, want, removals[i])
		}
	}
}

func TestRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.RunByID("nope")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("Expected nil for missing run, got %+v", run)
	}
}

func TestSaveRunDuplicateRollsBack(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun(RunRecord{RunID: "dup"}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	_, err := store.SaveRun(RunRecord{
		RunID:    "dup",
		Removals: []RemovalRecord{{Iteration: 1, Survivor: "a", Removed: "b"}},
	})
	if err == nil {
		t.Fatal("Expected error saving duplicate run ID")
	}

	removals, err := store.RunRemovals("dup")
	if err != nil {
		t.Fatalf("RunRemovals() failed: %v", err)
	}
	if len(removals) != 0 {
		t.Errorf("Expected no removals after failed save, got %d", len(removals))
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if _, err := store.SaveRun(RunRecord{RunID: id}); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	// Newest first
	if runs[0].RunID != "third" || runs[1].RunID != "second" {
		t.Errorf("Unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}

	all, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected default limit to return all 3 runs, got %d", len(all))
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastRun.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	runs := []RunRecord{
		{RunID: "a", Iterations: 10, RemainingShapes: 40, Duration: time.Second,
			Removals: []RemovalRecord{{Iteration: 1, Survivor: "x", Removed: "y"}}},
		{RunID: "b", Iterations: 4, RemainingShapes: 1, Duration: 3 * time.Second,
			Removals: []RemovalRecord{{Iteration: 1, Survivor: "x", Removed: "y"}, {Iteration: 3, Survivor: "x", Removed: "z"}}},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Expected 2 runs, got %d", stats.Runs)
	}
	if stats.TotalRemovals != 3 {
		t.Errorf("Expected 3 removals, got %d", stats.TotalRemovals)
	}
	if stats.AvgIterations != 7 {
		t.Errorf("Expected average of 7 iterations, got %v", stats.AvgIterations)
	}
	if stats.AvgRemaining != 20.5 {
		t.Errorf("Expected average of 20.5 remaining, got %v", stats.AvgRemaining)
	}
	if stats.LongestRunTime != 3*time.Second {
		t.Errorf("Expected longest run 3s, got %v", stats.LongestRunTime)
	}
	if stats.LastRun.IsZero() {
		t.Error("Expected last run time to be set")
	}
}

func TestRecordFromSummary(t *testing.T) {
	sum := scene.Summary{
		RunID:      "abc",
		Seed:       9,
		Initial:    3,
		Remaining:  1,
		Iterations: 2,
		Duration:   time.Second,
		Removals: []scene.Removal{
			{Iteration: 1, Survivor: "s", Removed: "r"},
		},
	}

	rec := RecordFromSummary(sum)
	if rec.RunID != "abc" || rec.Seed != 9 || rec.InitialShapes != 3 || rec.RemainingShapes != 1 || rec.Iterations != 2 {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if len(rec.Removals) != 1 || rec.Removals[0] != (RemovalRecord{Iteration: 1, Survivor: "s", Removed: "r"}) {
		t.Errorf("Unexpected removals: %+v", rec.Removals)
	}
}
