package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a process-local Store used by tools and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   []Document
	nextID uint
	writes int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Insert(_ context.Context, title, body string, metadata map[string]interface{}) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.docs = append(s.docs, Document{
		ID:        id,
		Title:     title,
		Body:      body,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	})
	s.writes++
	return id, nil
}

func (s *MemoryStore) All(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.writes++
	return nil
}

func (s *MemoryStore) Reseed(ctx context.Context, title, body, marker string) (bool, error) {
	s.mu.Lock()
	for i := range s.docs {
		if s.docs[i].Title != title {
			continue
		}
		// lowest id wins; docs are kept in id order
		if strings.Contains(s.docs[i].Body, marker) {
			s.mu.Unlock()
			return false, nil
		}
		s.docs[i].Body = body
		s.writes++
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	if _, err := s.Insert(ctx, title, body, map[string]interface{}{"source": "reseed"}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) DeleteByTitle(_ context.Context, title string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.docs[:0]
	var removed int64
	for _, d := range s.docs {
		if d.Title == title {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.docs = kept
	if removed > 0 {
		s.writes++
	}
	return removed, nil
}

// Writes reports how many mutating operations took effect.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
