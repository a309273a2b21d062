package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/customseal/internal/domain"
)

type fakeCatalog struct{ frames []domain.FrameStyle }

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{frames: []domain.FrameStyle{
		{ID: "aviator", Name: "Aviator Style", Popular: true},
		{ID: "round", Name: "Round Style"},
	}}
}

func (c *fakeCatalog) List() []domain.FrameStyle {
	return append([]domain.FrameStyle(nil), c.frames...)
}

func (c *fakeCatalog) Find(id string) (domain.FrameStyle, bool) {
	for _, f := range c.frames {
		if f.ID == id {
			return f, true
		}
	}
	return domain.FrameStyle{}, false
}

type fakeStorage struct {
	mu       sync.Mutex
	n        int
	live     map[string]string
	released []string
	failSave bool
}

func newFakeStorage() *fakeStorage { return &fakeStorage{live: map[string]string{}} }

func (s *fakeStorage) SaveScan(_ context.Context, _ uuid.UUID, name string, r io.Reader) (domain.ScanHandle, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return domain.ScanHandle{}, 0, errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return domain.ScanHandle{}, 0, err
	}
	s.n++
	key := "scans/" + strings.Repeat("x", s.n) + "-" + name
	s.live[key] = string(b)
	return domain.ScanHandle{Key: key, URL: "/uploads/" + key}, int64(len(b)), nil
}

func (s *fakeStorage) Release(_ context.Context, h domain.ScanHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, h.Key)
	s.released = append(s.released, h.Key)
	return nil
}

type fakeDesigns struct {
	mu    sync.Mutex
	saved []domain.Design
	saves int
	err   error
}

func (r *fakeDesigns) Save(_ context.Context, d *domain.Design) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves++
	for i := range r.saved {
		if r.saved[i].ID == d.ID {
			r.saved[i] = *d
			return nil
		}
	}
	r.saved = append(r.saved, *d)
	return nil
}

func (r *fakeDesigns) FindByID(_ context.Context, id uuid.UUID) (*domain.Design, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.saved {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDesigns) List(_ context.Context, f domain.DesignFilter) ([]domain.Design, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Design
	for _, d := range r.saved {
		if f.Kind != "" && d.Kind != f.Kind {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	page, size := f.Page, f.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	from := (page - 1) * size
	if from >= len(out) {
		return nil, total, nil
	}
	to := from + size
	if to > len(out) {
		to = len(out)
	}
	return out[from:to], total, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) NotifyDesign(_ context.Context, d *domain.Design) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, d.Email)
	return nil
}

type fakeSessions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Session
	now   func() time.Time
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{items: map[uuid.UUID]*domain.Session{}, now: time.Now}
}

func (r *fakeSessions) Create(_ context.Context) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := domain.NewSession(uuid.New(), r.now())
	r.items[s.ID] = s
	return s, nil
}

func (r *fakeSessions) Update(_ context.Context, id uuid.UUID, fn func(*domain.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return fn(s)
}

func (r *fakeSessions) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeSessions) Sweep(_ context.Context, before time.Time, fn func(*domain.Session)) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.items {
		if s.UpdatedAt.Before(before) {
			fn(s)
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}
