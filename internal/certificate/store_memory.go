package certificate

import (
	"context"
	"sort"
	"sync"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// MemoryStore holds templates in memory for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[id.TemplateID]*Template
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{templates: make(map[id.TemplateID]*Template)}
}

func (s *MemoryStore) Put(t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

func (s *MemoryStore) FindTemplate(ctx context.Context, eventID id.EventID, templateID id.TemplateID) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.templates[templateID]; ok && t.EventID == eventID {
		clone := *t
		clone.Fields = append([]Field(nil), t.Fields...)
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) ListTemplates(ctx context.Context, eventID id.EventID) ([]Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Template
	for _, t := range s.templates {
		if t.EventID == eventID {
			clone := *t
			clone.Fields = append([]Field(nil), t.Fields...)
			out = append(out, clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
