package marker

import (
	"context"
	"sync"
	"time"
)

// Marker is the persisted classification of an external identity. It is
// the cross-session analogue of the browser's userRole/userEmail/
// clerkUserId local-storage keys.
type Marker struct {
	ExternalID string `json:"clerk_user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// Store persists role markers keyed by external identity id. Get returns
// (nil, nil) when no marker exists.
type Store interface {
	Get(ctx context.Context, externalID string) (*Marker, error)
	Set(ctx context.Context, m Marker) error
	Clear(ctx context.Context, externalID string) error
}

type memoryEntry struct {
	marker    Marker
	expiresAt time.Time
}

// MemoryStore is the in-process implementation, used in tests and in
// single-instance deployments without Redis or Postgres.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: map[string]memoryEntry{},
	}
}

func (s *MemoryStore) Get(_ context.Context, externalID string) (*Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[externalID]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.entries, externalID)
		return nil, nil
	}
	marker := entry.marker
	return &marker, nil
}

func (s *MemoryStore) Set(_ context.Context, m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{marker: m}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[m.ExternalID] = entry
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, externalID)
	return nil
}
