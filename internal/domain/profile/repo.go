package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound reports that no profile row exists for the user yet.
var ErrNotFound = errors.New("profile: not found")

// Repository persists profiles. Upsert receives only allow-listed
// column/value pairs; the service filters before calling.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, fields map[string]any) (*Profile, error)
}
