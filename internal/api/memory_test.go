package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// In-memory ports used to drive the router end to end.

type memUsers struct {
	mu   sync.Mutex
	byID map[int64]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{byID: make(map[int64]*domain.User)} }

func (r *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if domain.Normalize(u.Username) == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	clone.ID = int64(len(r.byID) + 1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUsers) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type memCategories struct {
	mu   sync.Mutex
	next int64
	byID map[int64]*domain.Category
}

func newMemCategories() *memCategories {
	return &memCategories{byID: make(map[int64]*domain.Category)}
}

func (r *memCategories) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategories) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *memCategories) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *memCategories) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if domain.Normalize(c.Name) == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategories) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	clone := *c
	clone.ID = r.next
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memCategories) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *memCategories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type memProducts struct {
	mu   sync.Mutex
	next int64
	byID map[int64]*domain.Product
}

func newMemProducts() *memProducts { return &memProducts{byID: make(map[int64]*domain.Product)} }

func (r *memProducts) filter(keep func(*domain.Product) bool) []*domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Product{}
	for _, p := range r.byID {
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memProducts) List(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *memProducts) ListByCategory(_ context.Context, id int64) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.CategoryID == id }), nil
}

func (r *memProducts) Search(_ context.Context, term string) ([]*domain.Product, error) {
	term = strings.ToLower(term)
	return r.filter(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term)
	}), nil
}

func (r *memProducts) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *memProducts) ExistsByName(_ context.Context, name string) (bool, error) {
	return len(r.filter(func(p *domain.Product) bool { return domain.Normalize(p.Name) == name })) > 0, nil
}

func (r *memProducts) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	clone := *p
	clone.ID = r.next
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memProducts) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *memProducts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memProducts) DecrementStock(_ context.Context, name string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if domain.Normalize(p.Name) != name {
			continue
		}
		if p.Stock < quantity {
			return domain.ErrInsufficientStock
		}
		p.Stock -= quantity
		return nil
	}
	return domain.ErrProductNotFound
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bs, ok := c.entries[key]
	return bs, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	return nil
}
