package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeHasher stores "hashed:<password>" and counts comparisons.
type fakeHasher struct {
	verifies int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(hash, password string) bool {
	h.verifies++
	return hash == "hashed:"+password
}

// --- properties ---

type fakePropertyRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Property
	err    error
	writes int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{byID: map[int64]domain.Property{}}
}

func (f *fakePropertyRepo) Create(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = *p
	f.writes++
	return nil
}

func (f *fakePropertyRepo) ListByCity(_ context.Context, city string) ([]*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Property
	for _, p := range f.byID {
		if p.City == city {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	return &p, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID] = *p
	f.writes++
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	f.writes++
	return nil
}

// fakeResolver accepts "Bearer user-<id>".
type fakeResolver struct {
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, authorization string) (*domain.Caller, error) {
	r.calls++
	var id int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(authorization, "Bearer "), "user-%d", &id); err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Caller{ID: id}, nil
}

func bearer(id int64) string {
	return fmt.Sprintf("Bearer user-%d", id)
}
