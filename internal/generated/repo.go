package generated

import "context"

// Repo persists generated portfolio records.
type Repo interface {
	Create(ctx context.Context, p Portfolio) error
	GetByID(ctx context.Context, ownerID, id string) (Portfolio, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Portfolio, error)
}
