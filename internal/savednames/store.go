// Package savednames keeps a user's favourite names in a local JSON file, the
// same shape the web client keeps in local storage under "savedNames".
package savednames

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StorageKey is the key the list lives under, in the browser and in the file.
const StorageKey = "savedNames"

var ErrIndexOutOfRange = errors.New("saved name index out of range")

// SavedName is one favourite. SavedAt is unix milliseconds.
type SavedName struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning,omitempty"`
	SavedAt int64  `json:"savedAt"`
}

type document struct {
	SavedNames []SavedName `json:"savedNames"`
}

// Store is a file-backed list of saved names. Every mutation rewrites the file.
type Store struct {
	mu    sync.Mutex
	path  string
	names []SavedName
	now   func() time.Time
}

// Open loads the store at path. A missing file is an empty list; a corrupt
// file is reported but also starts empty, like the web client does.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read saved names: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return s, fmt.Errorf("decode saved names: %w", err)
	}
	s.names = doc.SavedNames
	return s, nil
}

// List returns the saved names in the order they were saved.
func (s *Store) List() []SavedName {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedName, len(s.names))
	copy(out, s.names)
	return out
}

// Contains reports whether name is already saved.
func (s *Store) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(name) >= 0
}

// Save appends name unless it is already present. It reports whether the
// list changed.
func (s *Store) Save(name, meaning string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(name) >= 0 {
		return false, nil
	}
	s.names = append(s.names, SavedName{
		Name:    name,
		Meaning: meaning,
		SavedAt: s.now().UnixMilli(),
	})
	if err := s.flush(); err != nil {
		s.names = s.names[:len(s.names)-1]
		return false, err
	}
	return true, nil
}

// Remove deletes the entry at index (zero based).
func (s *Store) Remove(index int) (SavedName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.names) {
		return SavedName{}, ErrIndexOutOfRange
	}
	removed := s.names[index]
	prev := s.names
	next := make([]SavedName, 0, len(s.names)-1)
	next = append(next, s.names[:index]...)
	next = append(next, s.names[index+1:]...)
	s.names = next
	if err := s.flush(); err != nil {
		s.names = prev
		return SavedName{}, err
	}
	return removed, nil
}

func (s *Store) indexOf(name string) int {
	for i, n := range s.names {
		if n.Name == name {
			return i
		}
	}
	return -1
}

// flush writes through a temp file so a crash never leaves half a document.
func (s *Store) flush() error {
	names := s.names
	if names == nil {
		names = []SavedName{}
	}
	data, err := json.MarshalIndent(document{SavedNames: names}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode saved names: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create saved names dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".savednames-*")
	if err != nil {
		return fmt.Errorf("write saved names: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write saved names: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write saved names: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write saved names: %w", err)
	}
	return nil
}
