package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryRegistry keeps records in memory. Used in tests and available
// through configuration for runs that should leave no state behind.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		records: make(map[string]Record),
	}
}

func (r *MemoryRegistry) Put(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Identifier] = record
	return nil
}

func (r *MemoryRegistry) Get(ctx context.Context, identifier string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[identifier]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r *MemoryRegistry) List(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]Record, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Identifier < records[j].Identifier
	})
	return records, nil
}

func (r *MemoryRegistry) Close() error {
	return nil
}
