package service

import (
	"sync"
	"time"

	"github.com/DaniOmer/planning-automation-backend/internal/dto"
)

type storedResult struct {
	response *dto.SolveResponse
	savedAt  time.Time
}

// resultStore keeps solve outcomes in memory with a TTL so asynchronous
// callers can fetch them by id.
type resultStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]storedResult
}

func newResultStore(ttl time.Duration) *resultStore {
	return &resultStore{
		ttl:   ttl,
		items: make(map[string]storedResult),
	}
}

func (s *resultStore) Save(id string, response *dto.SolveResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = storedResult{response: response, savedAt: time.Now()}
}

func (s *resultStore) Get(id string) (*dto.SolveResponse, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(item.savedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return item.response, true
}

func (s *resultStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
