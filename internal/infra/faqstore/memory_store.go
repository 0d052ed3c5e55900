package faqstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// MemoryStore is an in-memory faq.Store used for tests/dev. Records keep
// their seed order; increments are atomic under the store mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]faq.Record
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]faq.Record)}
}

// Seed loads records into the store, assigning ids to entries that lack one.
func (s *MemoryStore) Seed(records []faq.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			record.ID = uuid.NewString()
		}
		if _, exists := s.records[record.ID]; !exists {
			s.order = append(s.order, record.ID)
		}
		s.records[record.ID] = record
	}
}

// ListAll implements faq.Store.
func (s *MemoryStore) ListAll(_ context.Context) ([]faq.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]faq.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// GetByID implements faq.Store.
func (s *MemoryStore) GetByID(_ context.Context, id string) (faq.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	return record, ok, nil
}

// IncrementVote implements faq.Store.
func (s *MemoryStore) IncrementVote(_ context.Context, id string, kind faq.VoteKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return fmt.Errorf("faq %q not found", id)
	}
	switch kind {
	case faq.VoteLike:
		record.Likes++
	case faq.VoteDislike:
		record.Dislikes++
	default:
		return fmt.Errorf("unsupported vote kind %q", kind)
	}
	s.records[id] = record
	return nil
}

var _ faq.Store = (*MemoryStore)(nil)
