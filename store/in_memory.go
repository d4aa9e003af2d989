package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/assetmesh/core"
)

// InMemoryStore is a volatile AssetStore implementation keeping records in a
// process local map guarded by an RWMutex. Binary payloads are copied on
// create and on read to avoid accidental external mutation of internal
// buffers. IDs are monotonic and never reused, matching the durable backend.
//
// Like every AssetStore, operations fail with core.ErrStoreUninitialized
// until Open has completed once.
type InMemoryStore struct {
	mu     sync.RWMutex
	opened bool
	nextID int64
	assets map[int64]core.AssetRecord
}

// NewInMemoryStore constructs an empty in-memory asset store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, assets: make(map[int64]core.AssetRecord)}
}

// Compile-time interface assertion.
var _ core.AssetStore = (*InMemoryStore)(nil)

// Open marks the store ready. Idempotent.
func (s *InMemoryStore) Open(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	return nil
}

// Create stores a new record with the default scale and returns its id.
func (s *InMemoryStore) Create(_ context.Context, prompt string, image, model []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, core.ErrStoreUninitialized
	}
	id := s.nextID
	s.nextID++
	s.assets[id] = core.AssetRecord{
		ID:      id,
		Prompt:  prompt,
		Image:   cloneBytes(image),
		Model:   cloneBytes(model),
		Scale:   core.DefaultScale,
		Created: time.Now().UTC(),
	}
	return id, nil
}

// Get returns a copy of the record or core.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, id int64) (core.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.opened {
		return core.AssetRecord{}, core.ErrStoreUninitialized
	}
	rec, ok := s.assets[id]
	if !ok {
		return core.AssetRecord{}, core.ErrNotFound
	}
	return cloneRecord(rec), nil
}

// GetAll returns copies of every record in creation order.
func (s *InMemoryStore) GetAll(context.Context) ([]core.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.opened {
		return nil, core.ErrStoreUninitialized
	}
	records := make([]core.AssetRecord, 0, len(s.assets))
	for _, rec := range s.assets {
		records = append(records, cloneRecord(rec))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// UpdateScale sets the stored scale for id. The store accepts any positive
// value; clamping happens at the scale-editing boundary.
func (s *InMemoryStore) UpdateScale(_ context.Context, id int64, scale float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return core.ErrStoreUninitialized
	}
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", scale)
	}
	rec, ok := s.assets[id]
	if !ok {
		return core.ErrNotFound
	}
	rec.Scale = scale
	s.assets[id] = rec
	return nil
}

// Delete removes the record if present. Deleting a missing id is a no-op.
func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return core.ErrStoreUninitialized
	}
	delete(s.assets, id)
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

func cloneRecord(rec core.AssetRecord) core.AssetRecord {
	rec.Image = cloneBytes(rec.Image)
	rec.Model = cloneBytes(rec.Model)
	return rec
}
