package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// MemoryStore implements Store with a single mutex guarding an active-record
// index. The mutex makes insert-if-absent atomic, matching the uniqueness
// guarantee the Postgres store gets from its partial unique index.
type MemoryStore struct {
	mu     sync.Mutex
	active map[ScanKey]*ScanEvent
	all    []*ScanEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{active: make(map[ScanKey]*ScanEvent)}
}

func (s *MemoryStore) Insert(ctx context.Context, event *ScanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.Key()
	if _, exists := s.active[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	clone := *event
	s.active[key] = &clone
	s.all = append(s.all, &clone)
	return nil
}

func (s *MemoryStore) FindActive(ctx context.Context, key ScanKey) (*ScanEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.active[key]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) VoidMatching(ctx context.Context, key VoidKey, reason, actor string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var voided int64
	for activeKey, record := range s.active {
		if activeKey.EventID != key.EventID ||
			activeKey.RegistrationID != key.RegistrationID ||
			activeKey.ResourceType != key.ResourceType ||
			activeKey.OptionID != key.OptionID {
			continue
		}
		record.Status = StatusVoided
		voidedAt := at
		record.VoidedAt = &voidedAt
		record.VoidReason = reason
		record.VoidedBy = actor
		delete(s.active, activeKey)
		voided++
	}
	return voided, nil
}

func (s *MemoryStore) ListByRegistration(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) ([]ScanEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ScanEvent
	for _, record := range s.all {
		if record.EventID == eventID && record.RegistrationID == registrationID {
			out = append(out, *record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
