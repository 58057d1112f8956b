package deploy

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the deployment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the deployment belongs to another caller.
	ErrForbidden = errors.New("forbidden")
)

// Repo persists deployment records.
type Repo interface {
	Create(ctx context.Context, d Deployment) error
	Update(ctx context.Context, d Deployment) error
	GetByID(ctx context.Context, ownerID, id string) (Deployment, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Deployment, error)
}
