package healthcase

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound covers both a missing case and a case owned by someone
// else; callers cannot tell the two apart.
var ErrNotFound = errors.New("healthcase: not found")

type Repository interface {
	Create(ctx context.Context, hc *HealthCase) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*HealthCase, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*HealthCase, error)
	UpdateOwned(ctx context.Context, id, userID uuid.UUID, patch Patch) (*HealthCase, error)
}
