package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func TestNewAndParse(t *testing.T) {
	tok, err := New(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	claims, err := Parse(testSecret, tok)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Parse() user id = %d, want 42", claims.UserID)
	}
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := New(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	if _, err := Parse("other-secret", tok); err == nil {
		t.Error("Parse() with wrong secret error = nil, want error")
	}
}

func TestNewDefaultsNonPositiveTTL(t *testing.T) {
	tok, err := New(testSecret, 42, -time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	claims, err := Parse(testSecret, tok)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("defaulted ttl = %v, want about 24h", ttl)
	}
}

func TestParseExpired(t *testing.T) {
	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := Parse(testSecret, tok); err == nil {
		t.Error("Parse() of expired token error = nil, want error")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse(testSecret, "not.a.token"); err == nil {
		t.Error("Parse() of garbage error = nil, want error")
	}
}
