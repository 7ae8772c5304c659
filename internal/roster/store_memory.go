package roster

import (
	"context"
	"sort"
	"sync"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// MemoryStore is an in-memory roster for tests and local development. All
// maps are guarded by one RWMutex; the data is read-mostly.
type MemoryStore struct {
	mu            sync.RWMutex
	registrations map[id.RegistrationID]*Registration
	categories    map[id.CategoryID]*Category
	events        map[id.EventID]*Event
	abstracts     map[id.AbstractID]*Abstract
	workshops     map[id.WorkshopID]*Workshop
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		registrations: make(map[id.RegistrationID]*Registration),
		categories:    make(map[id.CategoryID]*Category),
		events:        make(map[id.EventID]*Event),
		abstracts:     make(map[id.AbstractID]*Abstract),
		workshops:     make(map[id.WorkshopID]*Workshop),
	}
}

// Seed helpers are exported for tests; production data arrives through the
// registration system's own writes.

func (s *MemoryStore) PutRegistration(r *Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[r.ID] = r
}

func (s *MemoryStore) PutCategory(c *Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *MemoryStore) PutEvent(e *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
}

func (s *MemoryStore) PutAbstract(a *Abstract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abstracts[a.ID] = a
}

func (s *MemoryStore) PutWorkshop(w *Workshop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workshops[w.ID] = w
}

func (s *MemoryStore) FindRegistration(ctx context.Context, eventID id.EventID, ref string) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if parsed, err := id.ParseRegistrationID(ref); err == nil {
		if r, ok := s.registrations[parsed]; ok && r.EventID == eventID {
			clone := *r
			return &clone, nil
		}
		return nil, sentinel.ErrNotFound
	}
	for _, r := range s.registrations {
		if r.EventID == eventID && r.BadgeCode == ref {
			clone := *r
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) FindCategory(ctx context.Context, categoryID id.CategoryID) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.categories[categoryID]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) FindEvent(ctx context.Context, eventID id.EventID) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.events[eventID]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) FindAbstract(ctx context.Context, abstractID id.AbstractID) (*Abstract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.abstracts[abstractID]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) FirstAbstractFor(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (*Abstract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*Abstract
	for _, a := range s.abstracts {
		if a.EventID == eventID && a.RegistrationID == registrationID {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, sentinel.ErrNotFound
	}
	// Oldest-first by code then ID keeps the pick deterministic.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Code != matches[j].Code {
			return matches[i].Code < matches[j].Code
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})
	clone := *matches[0]
	return &clone, nil
}

func (s *MemoryStore) HasApprovedAbstract(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.abstracts {
		if a.EventID == eventID && a.RegistrationID == registrationID && a.Status == AbstractApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) FindWorkshop(ctx context.Context, workshopID id.WorkshopID) (*Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.workshops[workshopID]; ok {
		clone := *w
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}
