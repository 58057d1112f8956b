package deploy

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps deployments in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Deployment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Deployment)}
}

func (r *MemoryRepo) Create(ctx context.Context, d Deployment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, d Deployment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[d.ID]; !ok {
		return ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Deployment, error) {
	if err := ctx.Err(); err != nil {
		return Deployment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Deployment{}, ErrNotFound
	}
	if d.OwnerID != ownerID {
		return Deployment{}, ErrForbidden
	}
	return d, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Deployment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Deployment{}
	for _, d := range r.byID {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Deployment{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
