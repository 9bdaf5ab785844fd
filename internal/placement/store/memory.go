package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgerror"
	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	batches map[string]*batchRecord
}

type batchRecord struct {
	mu    sync.RWMutex
	batch entity.Batch
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		batches: make(map[string]*batchRecord),
	}
}

func (s *InMemoryStore) FindBatch(ctx context.Context, name string) (entity.Batch, error) {
	rec, err := s.get(name)
	if err != nil {
		return entity.Batch{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return withoutRecords(rec.batch), nil
}

func (s *InMemoryStore) InsertBatch(ctx context.Context, batch entity.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[batch.Name]; exists {
		return pkgerror.ErrConflict
	}

	batch.Records = slices.Clone(batch.Records)
	s.batches[batch.Name] = &batchRecord{batch: batch}

	return nil
}

// ReplaceBatch holds the store read lock across the swap so a concurrent
// DeleteBatch either sees the new batch or makes this call fail.
func (s *InMemoryStore) ReplaceBatch(ctx context.Context, batch entity.Batch) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.batches[batch.Name]
	if !ok {
		return pkgerror.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	batch.Records = slices.Clone(batch.Records)
	rec.batch = batch

	return nil
}

func (s *InMemoryStore) ListBatchNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.batches))
	for name := range s.batches {
		names = append(names, name)
	}
	slices.Sort(names)

	return names, nil
}

func (s *InMemoryStore) ListRecords(ctx context.Context, name string, filter usecase.RecordFilter, page, pageSize int) ([]entity.StudentRecord, int, error) {
	rec, err := s.get(name)
	if err != nil {
		return nil, 0, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	total := 0
	start := (page - 1) * pageSize
	end := start + pageSize
	items := make([]entity.StudentRecord, 0, pageSize)

	for _, r := range rec.batch.Records {
		if !filter.Matches(r) {
			continue
		}

		if total >= start && total < end {
			items = append(items, r)
		}
		total++
	}

	return items, total, nil
}

func (s *InMemoryStore) DeleteBatch(ctx context.Context, name string) (entity.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.batches[name]
	if !ok {
		return entity.Batch{}, pkgerror.ErrNotFound
	}
	delete(s.batches, name)

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return withoutRecords(rec.batch), nil
}

func (s *InMemoryStore) get(name string) (*batchRecord, error) {
	s.mu.RLock()
	rec, ok := s.batches[name]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

func withoutRecords(b entity.Batch) entity.Batch {
	b.Records = nil
	return b
}
