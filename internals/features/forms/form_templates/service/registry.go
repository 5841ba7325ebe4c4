package service

import (
	"sync"
	"time"
)

// Workspaces menyimpan satu Workspace per operator (user_id dari token).
type Workspaces struct {
	mu       sync.Mutex
	items    map[string]*workspaceEntry
	newFn    func() *Workspace
	now      func() time.Time
	idleTime time.Duration
}

type workspaceEntry struct {
	ws       *Workspace
	lastUsed time.Time
}

func NewWorkspaces(newFn func() *Workspace, idle time.Duration, now func() time.Time) *Workspaces {
	if now == nil {
		now = time.Now
	}
	return &Workspaces{items: map[string]*workspaceEntry{}, newFn: newFn, now: now, idleTime: idle}
}

func (r *Workspaces) Get(userID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[userID]
	if !ok {
		e = &workspaceEntry{ws: r.newFn()}
		r.items[userID] = e
	}
	e.lastUsed = r.now()
	return e.ws
}

// Prune membuang workspace yang idle lebih lama dari idleTime.
func (r *Workspaces) Prune() int {
	if r.idleTime <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idleTime)
	n := 0
	for id, e := range r.items {
		if e.lastUsed.Before(cutoff) {
			delete(r.items, id)
			n++
		}
	}
	return n
}
