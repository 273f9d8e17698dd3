package api

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgallion1/reportgest/internal/report"
)

var errNoSnapshot = errors.New("no report snapshot")

// Snapshot is a loaded report with the entity tag derived from its content
// hash.
type Snapshot struct {
	Doc  *report.Document
	ETag string
}

// Store serves the report snapshot on disk. It reloads the file whenever its
// modification time changes, so a CLI extraction is picked up without a
// restart.
type Store struct {
	path string

	mu      sync.RWMutex
	current *Snapshot
	modTime time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the current snapshot, reloading it from disk if needed.
func (s *Store) Get() (*Snapshot, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.current != nil {
			return s.current, nil
		}
		return nil, errNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}

	s.mu.RLock()
	if s.current != nil && info.ModTime().Equal(s.modTime) {
		cur := s.current
		s.mu.RUnlock()
		return cur, nil
	}
	s.mu.RUnlock()

	doc, err := report.Load(s.path)
	if err != nil {
		return nil, err
	}
	snap, err := newSnapshot(doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = snap
	s.modTime = info.ModTime()
	s.mu.Unlock()
	return snap, nil
}

// Put saves doc as the new snapshot.
func (s *Store) Put(doc *report.Document) (*Snapshot, error) {
	snap, err := newSnapshot(doc)
	if err != nil {
		return nil, err
	}
	if err := report.Save(s.path, doc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}
	return snap, nil
}

func newSnapshot(doc *report.Document) (*Snapshot, error) {
	hash, err := report.ContentHash(doc)
	if err != nil {
		return nil, fmt.Errorf("hash report: %w", err)
	}
	return &Snapshot{Doc: doc, ETag: `"` + hash[:32] + `"`}, nil
}
