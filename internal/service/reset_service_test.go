package service

import (
	"context"
	"testing"
	"time"
)

func newTestResetService() (ResetService, *mockResetStore) {
	store := newMockResetStore()
	svc := NewResetService(store, &ResetServiceConfig{
		Secret:   "test-reset-secret",
		TokenTTL: time.Hour,
		UsedTTL:  2 * time.Hour,
	})
	return svc, store
}

func TestResetService_RoundTrip(t *testing.T) {
	svc, _ := newTestResetService()
	ctx := context.Background()

	token, err := svc.Generate(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	valid, err := svc.Verify(ctx, "user@example.com", token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !valid {
		t.Error("Verify() = false for a freshly issued token")
	}
}

func TestResetService_EmailMismatch(t *testing.T) {
	svc, _ := newTestResetService()
	ctx := context.Background()

	token, _ := svc.Generate(ctx, "user@example.com")

	valid, err := svc.Verify(ctx, "other@example.com", token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if valid {
		t.Error("Verify() = true for a mismatched email")
	}
}

func TestResetService_WrongSecret(t *testing.T) {
	svc, _ := newTestResetService()
	other := NewResetService(newMockResetStore(), &ResetServiceConfig{
		Secret: "another-secret",
	})
	ctx := context.Background()

	token, _ := other.Generate(ctx, "user@example.com")
	valid, err := svc.Verify(ctx, "user@example.com", token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if valid {
		t.Error("Verify() = true for a token signed with another secret")
	}
}

func TestResetService_ReplayRejected(t *testing.T) {
	svc, store := newTestResetService()
	ctx := context.Background()

	token, _ := svc.Generate(ctx, "user@example.com")
	if err := svc.Consume(ctx, "user@example.com", token); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	valid, err := svc.Verify(ctx, "user@example.com", token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if valid {
		t.Error("Verify() = true after the token was consumed")
	}
	if !store.used[token] {
		t.Error("used marker not persisted")
	}
	if _, ok := store.issued["user@example.com"]; ok {
		t.Error("issued marker not removed on consume")
	}
}

func TestResetService_NewerTokenInvalidatesOlder(t *testing.T) {
	svc, _ := newTestResetService()
	ctx := context.Background()

	first, _ := svc.Generate(ctx, "user@example.com")
	second, _ := svc.Generate(ctx, "user@example.com")
	if first == second {
		t.Fatal("expected distinct tokens")
	}

	valid, _ := svc.Verify(ctx, "user@example.com", first)
	if valid {
		t.Error("older token still verifies after a newer one was issued")
	}
	valid, _ = svc.Verify(ctx, "user@example.com", second)
	if !valid {
		t.Error("newest token should verify")
	}
}
