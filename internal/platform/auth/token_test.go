package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medilens/medilens/internal/platform/apperr"
)

func testIssuer(ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer("test-secret", ttl)
}

func TestIssueAndVerify(t *testing.T) {
	iss := testIssuer(time.Hour)

	token, err := iss.Issue("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("expected email a@example.com, got %s", claims.Email)
	}
	if claims.Role != DefaultRole {
		t.Errorf("expected role %q, got %q", DefaultRole, claims.Role)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := testIssuer(time.Hour).Issue("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokenIssuer("different-secret", time.Hour)
	_, err = other.Verify(token)
	if !errors.Is(err, apperr.ErrInvalidToken) {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	_, err := testIssuer(time.Hour).Verify("not.a.token")
	if !errors.Is(err, apperr.ErrInvalidToken) {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := testIssuer(time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := iss.Issue("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = time.Now
	_, err = iss.Verify(token)
	if !errors.Is(err, apperr.ErrTokenExpired) {
		t.Errorf("expected TOKEN_EXPIRED, got %v", err)
	}
}

// A token that passes the library's checks but whose exp lies in the past by
// the issuer's clock must still be rejected by the explicit wall-clock check.
func TestVerify_ExplicitClockCheck(t *testing.T) {
	iss := testIssuer(time.Minute)
	token, err := iss.Issue("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	if _, err := iss.Verify(token); !errors.Is(err, apperr.ErrTokenExpired) {
		t.Errorf("expected TOKEN_EXPIRED from wall-clock check, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	iss := testIssuer(time.Hour)

	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "a@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := iss.Verify(token); !errors.Is(err, apperr.ErrInvalidPayload) {
		t.Errorf("expected INVALID_PAYLOAD, got %v", err)
	}
}

func TestIssue_DiffersPerCall(t *testing.T) {
	iss := testIssuer(time.Hour)
	// iat has second granularity; freeze the clock so only payload equality matters.
	frozen := time.Now()
	iss.now = func() time.Time { return frozen }

	t1, _ := iss.Issue("user-123", "a@example.com")
	t2, _ := iss.Issue("user-456", "b@example.com")
	if t1 == t2 {
		t.Error("tokens for different users must differ")
	}
}
