package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medilens/medilens/internal/platform/apperr"
)

// DefaultRole is assigned to every self-registered user. Role is a single
// flat string; there is no hierarchy or capability set.
const DefaultRole = "user"

// Claims is the signed token payload: subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenIssuer signs and validates HS256 tokens with a symmetric secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a compact token for the given user. The payload always
// reflects the stored user row, never client-supplied values.
func (t *TokenIssuer) Issue(userID, email string) (string, error) {
	now := t.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Email: email,
		Role:  DefaultRole,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify decodes and validates a token. Signature or format problems map to
// INVALID_TOKEN, expiry to TOKEN_EXPIRED, a missing subject to
// INVALID_PAYLOAD. Expiry is additionally checked against wall-clock time on
// top of the library's own enforcement; it guards the case where a parser
// option change would silently disable the built-in check.
func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperr.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && t.now().UTC().After(claims.ExpiresAt.Time) {
		return nil, apperr.ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, apperr.ErrInvalidPayload
	}
	if claims.Role == "" {
		claims.Role = DefaultRole
	}
	return claims, nil
}
