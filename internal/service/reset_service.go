package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

const resetPurpose = "password-reset"

// ResetServiceConfig holds configuration for ResetService
type ResetServiceConfig struct {
	// Secret is dedicated to reset tokens; never the session secret
	Secret   string
	TokenTTL time.Duration
	UsedTTL  time.Duration
}

// ResetService issues and consumes single-use password-reset tokens.
// Issued and consumed markers live in the shared cache so verification
// and replay rejection work across instances.
type ResetService interface {
	// Generate mints a reset token and persists the issued marker;
	// a newer token invalidates any pending one for the same email.
	Generate(ctx context.Context, email string) (string, error)
	// Verify reports whether the token is valid, matches the email,
	// is the currently issued one, and has not been consumed.
	Verify(ctx context.Context, email, token string) (bool, error)
	// Consume marks the token used and drops the issued marker.
	Consume(ctx context.Context, email, token string) error
}

type resetService struct {
	store  repository.ResetTokenStore
	config *ResetServiceConfig
}

// NewResetService creates a new ResetService
func NewResetService(store repository.ResetTokenStore, config *ResetServiceConfig) ResetService {
	if config.TokenTTL == 0 {
		config.TokenTTL = time.Hour
	}
	if config.UsedTTL == 0 {
		config.UsedTTL = 2 * time.Hour
	}
	return &resetService{store: store, config: config}
}

// Generate mints a reset token and persists the issued marker
func (s *resetService) Generate(ctx context.Context, email string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reset.generate")
	defer span.End()

	// jti keeps two tokens issued within the same second distinct
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   email,
		"purpose": resetPurpose,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.config.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if err := s.store.StoreIssued(ctx, email, signed, s.config.TokenTTL); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return signed, nil
}

// Verify reports whether the token is currently redeemable
func (s *resetService) Verify(ctx context.Context, email, token string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reset.verify")
	defer span.End()

	used, err := s.store.IsUsed(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if used {
		span.SetStatus(codes.Ok, "token already used")
		return false, nil
	}

	if !s.claimsMatch(email, token) {
		span.SetStatus(codes.Ok, "claims mismatch")
		return false, nil
	}

	issued, found, err := s.store.GetIssued(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if !found || issued != token {
		span.SetStatus(codes.Ok, "not the issued token")
		return false, nil
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}

// Consume marks the token used and drops the issued marker
func (s *resetService) Consume(ctx context.Context, email, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.reset.consume")
	defer span.End()

	if err := s.store.MarkUsed(ctx, token, s.config.UsedTTL); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := s.store.DeleteIssued(ctx, email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// claimsMatch verifies signature, expiry, purpose and email binding
func (s *resetService) claimsMatch(email, tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	purpose, _ := claims["purpose"].(string)
	claimEmail, _ := claims["email"].(string)
	return purpose == resetPurpose && claimEmail == email
}
