package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medilens/medilens/internal/platform/apperr"
	"github.com/medilens/medilens/internal/platform/auth"
)

// ProfileSeeder creates an initial profile row for a freshly registered user.
// Seeding is best-effort: registration succeeds even when it fails.
type ProfileSeeder interface {
	Seed(ctx context.Context, userID uuid.UUID, email string) error
}

type Service struct {
	repo    Repository
	hasher  *auth.Hasher
	issuer  *auth.TokenIssuer
	profile ProfileSeeder
	log     zerolog.Logger
}

func NewService(repo Repository, hasher *auth.Hasher, issuer *auth.TokenIssuer, profile ProfileSeeder, log zerolog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer, profile: profile, log: log}
}

// AuthResult carries the signed token and the account it belongs to.
type AuthResult struct {
	Token string
	User  *User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrMissingCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.ErrUserExists
		}
		return nil, apperr.Internal(err)
	}

	if s.profile != nil {
		if err := s.profile.Seed(ctx, user.ID, user.Email); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.String()).
				Msg("profile seed failed after registration")
		}
	}

	token, err := s.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrMissingCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same answer as a bad password so probing for accounts tells nothing.
			return nil, apperr.ErrInvalidLogin
		}
		return nil, apperr.Internal(err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, apperr.ErrInvalidLogin
	}

	// Keep the profile row mirrored on every successful login too, so an
	// account whose registration-time seed failed self-heals.
	if s.profile != nil {
		if err := s.profile.Seed(ctx, user.ID, user.Email); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.String()).
				Msg("profile seed failed after login")
		}
	}

	token, err := s.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}
