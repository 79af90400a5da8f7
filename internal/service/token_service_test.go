package service

import (
	"testing"
	"time"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
)

func newTestTokenService(secret string) TokenService {
	return NewTokenService(&TokenServiceConfig{
		Secret:          secret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "planzo-test",
	})
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService("test-secret")

	token, err := svc.CreateAccessToken("user-1", domain.RoleVendor)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %v, want user-1", claims.UserID)
	}
	if claims.Role != domain.RoleVendor {
		t.Errorf("Role = %v, want vendor", claims.Role)
	}
	if remaining := time.Until(claims.ExpiresAt); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Errorf("ExpiresAt %v from now, want ~15m", remaining)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService("right-secret")
	other := newTestTokenService("wrong-secret")

	token, err := svc.CreateAccessToken("user-1", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err != ErrInvalidToken {
		t.Errorf("VerifyAccessToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokenService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(token); err != ErrInvalidToken {
			t.Errorf("VerifyAccessToken(%q) error = %v, want %v", token, err, ErrInvalidToken)
		}
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := NewTokenService(&TokenServiceConfig{
		Secret:         "test-secret",
		AccessTokenTTL: -time.Minute,
	})

	token, err := svc.CreateAccessToken("user-1", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err != ErrTokenExpired {
		t.Errorf("VerifyAccessToken() error = %v, want %v", err, ErrTokenExpired)
	}

	// Decode skips signature and expiry checks so logout can still
	// read exp from an expired token
	claims, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !claims.ExpiresAt.Before(time.Now()) {
		t.Error("Decode() ExpiresAt should be in the past")
	}
}

func TestTokenService_RefreshTokenHasNoRole(t *testing.T) {
	svc := newTestTokenService("test-secret")

	token, err := svc.CreateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("CreateRefreshToken() error = %v", err)
	}

	claims, err := svc.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %v, want user-1", claims.UserID)
	}

	// Decoded as an access token the role must be empty
	decoded, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Role != "" {
		t.Errorf("refresh token Role = %q, want empty", decoded.Role)
	}
}
