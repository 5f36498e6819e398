package report

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrExportDisabled = errors.New("report export is not configured")

// Export is a stored report and where to download it from
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store uploads rendered reports
type Store interface {
	Put(ctx context.Context, r *Report) (*Export, error)
}

// MemoryStore keeps reports in process, for tests and local runs
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), ttl: ttl}
}

func (s *MemoryStore) Put(_ context.Context, r *Report) (*Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[r.Filename] = append([]byte(nil), r.Content...)
	return &Export{
		Key:       r.Filename,
		URL:       "memory://" + r.Filename,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Get returns a stored object
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.objects[key]
	return content, ok
}
