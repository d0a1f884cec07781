package recstore

import (
	"context"
	"sync"
	"time"

	"github.com/wenhua/meal-advisor/internal/domain/recommend"
)

type memoryEntry struct {
	set       recommend.RecommendationSet
	expiresAt time.Time
}

// MemoryStore is the in-process session store used when Valkey is not
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save implements recommend.SessionStore. A non-positive ttl keeps the entry
// until overwritten.
func (s *MemoryStore) Save(_ context.Context, set recommend.RecommendationSet, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[set.SessionID] = memoryEntry{set: set, expiresAt: expires}
	s.evictExpiredLocked()
	return nil
}

// Get implements recommend.SessionStore.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (recommend.RecommendationSet, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return recommend.RecommendationSet{}, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return recommend.RecommendationSet{}, false, nil
	}
	return entry.set, true, nil
}

func (s *MemoryStore) evictExpiredLocked() {
	now := s.now()
	for id, entry := range s.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

var _ recommend.SessionStore = (*MemoryStore)(nil)
