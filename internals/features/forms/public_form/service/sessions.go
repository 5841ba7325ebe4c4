package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	subsvc "impala_backend/internals/features/forms/form_submissions/service"
)

var ErrSessionNotFound = errors.New("sesi form tidak ditemukan")

// Sessions menyimpan renderer yang hidup per draft id. Draft yang tidak ada
// di memori (mis. setelah restart) dipulihkan dari DraftStore.
type Sessions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*session
	deps  Deps
}

type session struct {
	r        *Renderer
	lastSeen time.Time
}

func NewSessions(deps Deps) *Sessions {
	return &Sessions{items: map[uuid.UUID]*session{}, deps: deps.withDefaults()}
}

// Open membuat sesi baru untuk slug dan memuat templatenya. Sesi yang gagal
// dimuat tidak disimpan.
func (s *Sessions) Open(ctx context.Context, slug string) (*Renderer, error) {
	r := NewRenderer(slug, s.deps)
	if err := r.Load(ctx); err != nil {
		r.Close()
		return r, err
	}
	s.put(r)
	r.persist(ctx)
	return r, nil
}

// Preview memuat form tanpa menyimpan sesi.
func (s *Sessions) Preview(ctx context.Context, slug string) (*Renderer, error) {
	r := NewRenderer(slug, s.deps)
	err := r.Load(ctx)
	return r, err
}

// Get mengambil sesi milik slug; dipulihkan dari store jika perlu.
func (s *Sessions) Get(ctx context.Context, slug string, id uuid.UUID) (*Renderer, error) {
	s.mu.Lock()
	if e, ok := s.items[id]; ok {
		e.lastSeen = s.deps.Now()
		s.mu.Unlock()
		if e.r.Slug() != slug {
			return nil, ErrSessionNotFound
		}
		return e.r, nil
	}
	s.mu.Unlock()

	if s.deps.Store == nil {
		return nil, ErrSessionNotFound
	}
	d, err := s.deps.Store.Get(ctx, id)
	if errors.Is(err, subsvc.ErrDraftNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Slug != slug {
		return nil, ErrSessionNotFound
	}

	r := NewRenderer(slug, s.deps)
	if err := r.Restore(ctx, d); err != nil {
		r.Close()
		return r, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		// request lain sudah memulihkan sesi yang sama
		r.Close()
		return e.r, nil
	}
	s.items[id] = &session{r: r, lastSeen: s.deps.Now()}
	return r, nil
}

func (s *Sessions) put(r *Renderer) {
	s.mu.Lock()
	s.items[r.Draft().ID] = &session{r: r, lastSeen: s.deps.Now()}
	s.mu.Unlock()
}

// Discard menutup sesi dan menghapus draftnya.
func (s *Sessions) Discard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if e, ok := s.items[id]; ok {
		e.r.Close()
		delete(s.items, id)
	}
	s.mu.Unlock()
	if s.deps.Store == nil {
		return nil
	}
	return s.deps.Store.Delete(ctx, id)
}

// PruneIdle menutup sesi yang tidak diakses sejak cutoff.
func (s *Sessions) PruneIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.items {
		if e.lastSeen.Before(cutoff) {
			e.r.Close()
			delete(s.items, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
