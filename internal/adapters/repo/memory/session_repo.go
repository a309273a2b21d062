package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/customseal/internal/domain"
)

type entry struct {
	mu sync.Mutex
	s  *domain.Session
}

// SessionRepo guarda las sesiones del wizard en memoria. Cada sesión tiene
// su propio lock; el mapa tiene otro.
type SessionRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entry
	now   func() time.Time
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{items: map[uuid.UUID]*entry{}, now: time.Now}
}

func (r *SessionRepo) Create(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := domain.NewSession(uuid.New(), r.now())
	r.mu.Lock()
	r.items[s.ID] = &entry{s: s}
	r.mu.Unlock()
	return s, nil
}

func (r *SessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) error {
	r.mu.Lock()
	e, ok := r.items[id]
	r.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(e.s)
	e.s.UpdatedAt = r.now()
	return err
}

func (r *SessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// Sweep quita las sesiones sin actividad desde idleBefore y llama fn con
// cada una antes de descartarla.
func (r *SessionRepo) Sweep(_ context.Context, idleBefore time.Time, fn func(*domain.Session)) (int, error) {
	var expired []*entry
	r.mu.Lock()
	for id, e := range r.items {
		e.mu.Lock()
		idle := e.s.UpdatedAt.Before(idleBefore)
		e.mu.Unlock()
		if idle {
			expired = append(expired, e)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()
	for _, e := range expired {
		e.mu.Lock()
		if fn != nil {
			fn(e.s)
		}
		e.mu.Unlock()
	}
	return len(expired), nil
}

func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
