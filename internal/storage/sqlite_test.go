package storage

import (
	"os"
	"path/filepath"
	"testing"
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

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Player: "ann", Score: 100, Level: 1, Outcome: "defeat", Duration: 40},
		{Player: "bob", Score: 50, Level: 1, Outcome: "exited", Duration: 12},
		{Player: "ann", Score: 200, Level: 2, Outcome: "victory", Duration: 300, Seed: 7},
	}
	for _, r := range runs {
		id, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		if len(id) != 36 {
			t.Errorf("SaveRun() id = %q, expected a uuid", id)
		}
	}

	top, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Should be sorted descending
	want := []int{200, 100, 50}
	for i, w := range want {
		if top[i].Score != w {
			t.Errorf("top[%d].Score = %d, expected %d", i, top[i].Score, w)
		}
	}
	if top[0].Outcome != "victory" || top[0].Level != 2 || top[0].Seed != 7 {
		t.Errorf("top run fields not persisted: %+v", top[0])
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("created_at should be populated")
	}

	limited, _ := store.TopRuns(1)
	if len(limited) != 1 {
		t.Errorf("TopRuns(1) returned %d runs", len(limited))
	}

	ann, _ := store.PlayerRuns("ann", 10)
	if len(ann) != 2 || ann[0].Score != 200 {
		t.Errorf("PlayerRuns(ann) = %+v", ann)
	}

	recent, _ := store.RecentRuns(1)
	if len(recent) != 1 || recent[0].Score != 200 {
		t.Errorf("RecentRuns(1) = %+v, expected the last saved run", recent)
	}
}

func TestStoreRunByID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{ID: "fixed-id", Player: "cy", Score: 30, Level: 1, Outcome: "defeat"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("SaveRun() should keep a caller-provided id, got %q", id)
	}

	r, err := store.RunByID("fixed-id")
	if err != nil || r == nil {
		t.Fatalf("RunByID() = %v, %v", r, err)
	}
	if r.Player != "cy" || r.Score != 30 {
		t.Errorf("RunByID() = %+v", r)
	}

	missing, err := store.RunByID("nope")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; expected nil, nil", missing, err)
	}

	if _, err := store.SaveRun(Run{ID: "fixed-id", Player: "cy", Outcome: "defeat"}); err == nil {
		t.Error("duplicate run id should be rejected")
	}
}

func TestStoreHighScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty store, got %d", high)
	}

	empty, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if empty.Runs != 0 {
		t.Errorf("Runs = %d, expected 0", empty.Runs)
	}

	store.SaveRun(Run{Player: "a", Score: 10, Outcome: "defeat", Level: 1})
	store.SaveRun(Run{Player: "a", Score: 90, Outcome: "victory", Level: 2})
	store.SaveRun(Run{Player: "b", Score: 20, Outcome: "exited", Level: 1})

	high, _ = store.HighScore()
	if high != 90 {
		t.Errorf("HighScore() = %d, expected 90", high)
	}

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.Runs != 3 || st.Victories != 1 || st.Defeats != 1 || st.Exits != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.AvgScore != 40 {
		t.Errorf("AvgScore = %v, expected 40", st.AvgScore)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if high, _ := store.HighScore(); high != 0 {
		t.Errorf("HighScore() after clear = %d", high)
	}
}
