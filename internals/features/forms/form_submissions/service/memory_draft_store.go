package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"impala_backend/internals/features/forms/form_submissions/model"
)

// MemoryDraftStore dipakai saat DB tidak dikonfigurasi dan di test.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]model.Draft
	now    func() time.Time
}

func NewMemoryDraftStore(now func() time.Time) *MemoryDraftStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryDraftStore{drafts: map[uuid.UUID]model.Draft{}, now: now}
}

func (s *MemoryDraftStore) Save(_ context.Context, d model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d = d.Clone()
	d.UpdatedAt = s.now()
	s.drafts[d.ID] = d
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id uuid.UUID) (model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return model.Draft{}, ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryDraftStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, d := range s.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(s.drafts, id)
			n++
		}
	}
	return n, nil
}
