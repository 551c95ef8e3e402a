package checkpoint

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store tracks which group IDs have completed the pipeline. The backing file
// is an append-only log with one integer group ID per line; it is read fully
// on open and appended to under a lock for the lifetime of the store.
type Store struct {
	mu   sync.Mutex
	path string
	file *os.File
	done map[int64]struct{}
}

// Open reads the processed-group log at path, creating it (and its parent
// directory) when absent. Blank or malformed lines are ignored so a partially
// written final line from a crashed run cannot poison the set.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create checkpoint directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint log: %w", err)
	}

	done := make(map[int64]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			continue
		}
		done[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("read checkpoint log: %w", err)
	}

	if _, err := file.Seek(0, 2); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("seek checkpoint log: %w", err)
	}

	return &Store{path: path, file: file, done: done}, nil
}

// IsProcessed reports whether the group completed in this or a prior run.
func (s *Store) IsProcessed(groupID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.done[groupID]
	return ok
}

// MarkProcessed durably records the group as completed. Marking an already
// processed group is a no-op. The in-memory set is only updated after the
// line is on disk, so a write failure leaves the group unmarked and it will
// be retried on the next run.
func (s *Store) MarkProcessed(groupID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.done[groupID]; ok {
		return nil
	}

	if _, err := fmt.Fprintf(s.file, "%d\n", groupID); err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync checkpoint: %w", err)
	}

	s.done[groupID] = struct{}{}
	return nil
}

// Count returns the number of processed groups.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.done)
}

// IDs returns the processed group IDs in ascending order.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.done))
	for id := range s.done {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Path returns the location of the backing log.
func (s *Store) Path() string {
	return s.path
}

// Close releases the backing file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
