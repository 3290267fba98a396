package healthcase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medilens/medilens/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req createRequest) (*HealthCase, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, apperr.ErrMissingSymptoms
	}
	hc := &HealthCase{
		UserID:     userID,
		Symptoms:   req.Symptoms,
		AIAnalysis: req.AIAnalysis,
		Severity:   req.Severity,
		Category:   req.Category,
		Status:     StatusOpen,
	}
	if err := s.repo.Create(ctx, hc); err != nil {
		return nil, apperr.Internal(err)
	}
	return hc, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*HealthCase, error) {
	cases, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if cases == nil {
		cases = []*HealthCase{}
	}
	return cases, nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*HealthCase, error) {
	hc, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.ErrCaseNotFound
		}
		return nil, apperr.Internal(err)
	}
	return hc, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, patch Patch) (*HealthCase, error) {
	if patch.empty() {
		return nil, apperr.ErrNoUpdateFields
	}
	hc, err := s.repo.UpdateOwned(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.ErrCaseNotFound
		}
		return nil, apperr.Internal(err)
	}
	return hc, nil
}
