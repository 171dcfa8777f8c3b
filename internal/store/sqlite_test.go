package store

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goaltrack.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}

	state := seedState(t)
	if err := s.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	assertSameExport(t, state, loaded)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goaltrack.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}

	state := seedState(t)
	if err := s.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// 删除一个目标后再保存，旧行必须被整体替换掉
	if err := state.DeleteGoal("G2"); err != nil {
		t.Fatalf("DeleteGoal returned error: %v", err)
	}
	if err := s.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := len(loaded.Goals()); got != 1 {
		t.Fatalf("expected 1 goal after replace, got %d", got)
	}
	assertSameExport(t, state, loaded)
}

func TestSQLiteStoreEmptyDatabase(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}

	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(state.Goals()) != 0 {
		t.Fatalf("expected empty state, got %d goals", len(state.Goals()))
	}
}
