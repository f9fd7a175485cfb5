// Package corpus owns the in-memory log line corpus. The loaded sequence is
// immutable; an administrative reload swaps the whole slice atomically so
// concurrent scans never observe a partially loaded corpus.
package corpus

import (
	"bufio"
	"os"
	"strings"
	"sync/atomic"
)

// Store holds the current corpus snapshot.
type Store struct {
	path  string
	lines atomic.Pointer[[]string]
}

// NewStore creates a store bound to a source file path. The corpus is empty
// until Load is called.
func NewStore(path string) *Store {
	s := &Store{path: path}
	empty := []string{}
	s.lines.Store(&empty)
	return s
}

// Load reads the source file and atomically replaces the corpus. Blank lines
// are dropped; order is preserved; only the trailing newline is trimmed.
// A missing source file yields an empty corpus without error.
func (s *Store) Load() (int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			empty := []string{}
			s.lines.Store(&empty)
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if lines == nil {
		lines = []string{}
	}
	s.lines.Store(&lines)
	return len(lines), nil
}

// Lines returns the current snapshot. Callers must not mutate it.
func (s *Store) Lines() []string {
	return *s.lines.Load()
}

// Len returns the number of lines in the current snapshot.
func (s *Store) Len() int {
	return len(*s.lines.Load())
}

// Path returns the configured source file path.
func (s *Store) Path() string {
	return s.path
}
