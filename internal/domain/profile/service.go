package profile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medilens/medilens/internal/platform/apperr"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Seed creates a minimal profile row for a new user. Used as the
// best-effort mirror during registration.
func (s *Service) Seed(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := s.repo.Upsert(ctx, userID, map[string]any{"email": email})
	return err
}

// Get returns the user's profile, creating an empty one seeded with the
// account email the first time it is read.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, email string) (*Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err == nil {
		p.decodeStructured()
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	p, err = s.repo.Upsert(ctx, userID, map[string]any{"email": email})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	p.decodeStructured()
	return p, nil
}

// Upsert merges the allow-listed subset of fields into the profile.
// Unknown keys are dropped without complaint. Structured values are
// stored as JSON text so they round-trip through the TEXT columns.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, fields map[string]any) (*Profile, error) {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		if !allowedColumns[key] {
			continue
		}
		v, err := normalizeValue(value)
		if err != nil {
			return nil, apperr.ErrInvalidBody.WithMessage("field %q is not serializable", key)
		}
		filtered[key] = v
	}

	if len(filtered) == 0 {
		// Nothing effective to write; hand back the current row.
		p, err := s.repo.Get(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.ErrProfileNotFound
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}
		p.decodeStructured()
		return p, nil
	}

	p, err := s.repo.Upsert(ctx, userID, filtered)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	p.decodeStructured()
	return p, nil
}

func normalizeValue(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, float64, int, int64:
		return value, nil
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	}
}
