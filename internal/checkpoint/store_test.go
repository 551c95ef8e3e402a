package checkpoint

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open checkpoint store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMarkProcessedSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")

	store := openStore(t, path)
	if store.IsProcessed(42) {
		t.Fatal("fresh store should not report group 42 processed")
	}
	if err := store.MarkProcessed(42); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened := openStore(t, path)
	if !reopened.IsProcessed(42) {
		t.Fatal("expected group 42 processed after reopen")
	}
}

func TestDuplicateMarksWriteOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")
	store := openStore(t, path)

	for i := 0; i < 3; i++ {
		if err := store.MarkProcessed(42); err != nil {
			t.Fatalf("mark processed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "42" {
		t.Fatalf("expected log to contain exactly one line '42', got %q", got)
	}
	if store.Count() != 1 {
		t.Fatalf("expected count 1, got %d", store.Count())
	}
}

func TestOpenToleratesGarbageLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")
	content := "12\n\nnot-a-number\n  34 \n5"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	store := openStore(t, path)
	for _, id := range []int64{12, 34, 5} {
		if !store.IsProcessed(id) {
			t.Fatalf("expected %d processed", id)
		}
	}
	if store.Count() != 3 {
		t.Fatalf("expected 3 processed groups, got %d", store.Count())
	}
}

func TestAppendsAfterExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")
	if err := os.WriteFile(path, []byte("1\n2\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	store := openStore(t, path)
	if err := store.MarkProcessed(3); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "1\n2\n3\n" {
		t.Fatalf("unexpected log contents %q", string(data))
	}
}

func TestConcurrentMarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")
	store := openStore(t, path)

	const groups = 50
	var wg sync.WaitGroup
	for i := 0; i < groups; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := store.MarkProcessed(id); err != nil {
				t.Errorf("mark %d: %v", id, err)
			}
		}(int64(i))
	}
	wg.Wait()

	if store.Count() != groups {
		t.Fatalf("expected %d processed groups, got %d", groups, store.Count())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Fields(string(data))
	if len(lines) != groups {
		t.Fatalf("expected %d lines, got %d", groups, len(lines))
	}
}

func TestIDsSorted(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "processed.txt"))
	for _, id := range []int64{9, 1, 5} {
		if err := store.MarkProcessed(id); err != nil {
			t.Fatalf("mark %d: %v", id, err)
		}
	}
	ids := store.IDs()
	want := []int64{1, 5, 9}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}
