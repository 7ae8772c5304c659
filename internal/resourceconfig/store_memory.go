package resourceconfig

import (
	"context"
	"sync"

	id "symposia/pkg/domain"
)

type memoryKey struct {
	eventID      id.EventID
	resourceType id.ResourceType
}

// MemoryDirectory holds options in memory for tests and local development.
type MemoryDirectory struct {
	mu      sync.RWMutex
	options map[memoryKey][]Option
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{options: make(map[memoryKey][]Option)}
}

// Put replaces the configured options for (event, resourceType).
func (d *MemoryDirectory) Put(eventID id.EventID, resourceType id.ResourceType, options []Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options[memoryKey{eventID, resourceType}] = append([]Option(nil), options...)
}

func (d *MemoryDirectory) Options(ctx context.Context, eventID id.EventID, resourceType id.ResourceType) ([]Option, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stored := d.options[memoryKey{eventID, resourceType}]
	return append([]Option(nil), stored...), nil
}
