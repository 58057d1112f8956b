package generated

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Portfolio
	byOwner map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Portfolio),
		byOwner: make(map[string][]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, p Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	r.byOwner[p.OwnerID] = append(r.byOwner[p.OwnerID], p.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return Portfolio{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return Portfolio{}, ErrNotFound
	}
	if p.OwnerID != ownerID {
		return Portfolio{}, ErrForbidden
	}
	return p, nil
}

// ListByOwner returns records newest first. A non-positive limit returns everything after offset.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	ids := r.byOwner[ownerID]
	out := make([]Portfolio, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Portfolio{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
