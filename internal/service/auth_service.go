package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/notifier"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/pkg/logger"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost     int
	OtpTTL         time.Duration
	StatusCacheTTL time.Duration
	FrontendURL    string
}

// LoginResult carries both tokens; the handler decides transport
// (access token in the body, refresh token in a cookie).
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         dto.UserResponse
}

// AuthService implements registration, login and password flows for
// every principal role.
type AuthService interface {
	// RequestOtp generates and mails a registration code; calling it
	// again replaces the pending code.
	RequestOtp(ctx context.Context, email string) error
	// RegisterClient creates a client account gated on a valid OTP
	RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error)
	// RegisterVendor creates a pending vendor account gated on a valid OTP
	RegisterVendor(ctx context.Context, req *dto.RegisterVendorRequest) (*dto.UserResponse, error)
	// Login authenticates against the given role's collection
	Login(ctx context.Context, role domain.Role, email, password string) (*LoginResult, error)
	// GoogleLogin signs in (or signs up) a Google-verified client
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*LoginResult, error)
	// RefreshToken verifies the refresh token, re-checks status and
	// mints a fresh access token
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	// Logout blacklists the access token for its remaining lifetime.
	// Returns false when the token is already past its expiry.
	Logout(ctx context.Context, accessToken string) (bool, error)
	// ForgotPassword issues a reset token and mails the reset link
	ForgotPassword(ctx context.Context, role domain.Role, email string) error
	// ResetPassword redeems a reset token, rehashes and stores the
	// new password, and consumes the token
	ResetPassword(ctx context.Context, role domain.Role, req *dto.ResetPasswordRequest) error
	// ChangePassword rotates the password of an authenticated principal
	ChangePassword(ctx context.Context, role domain.Role, userID string, req *dto.ChangePasswordRequest) error
	// GetProfile returns the principal's own document
	GetProfile(ctx context.Context, role domain.Role, userID string) (*domain.User, error)
	// UpdateProfile edits the principal's own document
	UpdateProfile(ctx context.Context, role domain.Role, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

type authService struct {
	repos       map[domain.Role]repository.UserRepository
	tokens      TokenService
	reset       ResetService
	otps        repository.OtpStore
	statusCache repository.StatusCache
	blacklist   repository.TokenBlacklist
	notifier    notifier.Notifier
	config      *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos map[domain.Role]repository.UserRepository,
	tokens TokenService,
	reset ResetService,
	otps repository.OtpStore,
	statusCache repository.StatusCache,
	blacklist repository.TokenBlacklist,
	notif notifier.Notifier,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.OtpTTL == 0 {
		config.OtpTTL = 5 * time.Minute
	}
	return &authService{
		repos:       repos,
		tokens:      tokens,
		reset:       reset,
		otps:        otps,
		statusCache: statusCache,
		blacklist:   blacklist,
		notifier:    notif,
		config:      config,
	}
}

// RequestOtp generates and mails a registration code
func (s *authService) RequestOtp(ctx context.Context, email string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.request_otp")
	defer span.End()

	code, err := generateOtp()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.otps.Set(ctx, email, code, s.config.OtpTTL); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// Mail delivery is best-effort; the code can be re-requested
	if err := s.notifier.SendOtp(ctx, email, code); err != nil {
		logger.Get().Warn("otp mail not published", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// RegisterClient creates a client account gated on a valid OTP
func (s *authService) RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register_client")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	if err := s.checkEmailFree(ctx, req.Email); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.consumeOtp(ctx, req.Email, req.Otp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserID:       uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repos[domain.RoleClient].Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.UserID))
	span.SetStatus(codes.Ok, "")
	resp := toUserResponse(user)
	return &resp, nil
}

// RegisterVendor creates a pending vendor account gated on a valid OTP
func (s *authService) RegisterVendor(ctx context.Context, req *dto.RegisterVendorRequest) (*dto.UserResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register_vendor")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	if err := s.checkEmailFree(ctx, req.Email); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.consumeOtp(ctx, req.Email, req.Otp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserID:       uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleVendor,
		Status:       domain.StatusActive,
		VendorID:     uuid.New().String(),
		VendorStatus: domain.VendorPending,
		IDProof:      req.IDProof,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repos[domain.RoleVendor].Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.UserID))
	span.SetStatus(codes.Ok, "")
	resp := toUserResponse(user)
	return &resp, nil
}

// Login authenticates against the given role's collection
func (s *authService) Login(ctx context.Context, role domain.Role, email, password string) (*LoginResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.String("role", string(role)),
	)

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return nil, ErrUserNotFound
	}

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}
	if user.IsBlocked() {
		span.SetStatus(codes.Error, "user blocked")
		return nil, ErrUserBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.UserID))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// GoogleLogin signs in (or signs up) a Google-verified client
func (s *authService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*LoginResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.google_login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	repo := s.repos[domain.RoleClient]
	user, err := repo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if user == nil {
		now := time.Now()
		user = &domain.User{
			UserID:         uuid.New().String(),
			Name:           req.Name,
			Email:          req.Email,
			Role:           domain.RoleClient,
			Status:         domain.StatusActive,
			GoogleVerified: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repo.Create(ctx, user); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	} else if user.IsBlocked() {
		span.SetStatus(codes.Error, "user blocked")
		return nil, ErrUserBlocked
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.UserID))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// RefreshToken verifies the refresh token and mints a fresh access token
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh_token")
	defer span.End()

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "invalid refresh token")
		return "", err
	}

	// The refresh token carries no role, so find the principal
	user, role, err := s.findByUserID(ctx, claims.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return "", ErrUserNotFound
	}
	if user.IsBlocked() {
		span.SetStatus(codes.Error, "user blocked")
		return "", ErrUserBlocked
	}

	access, err := s.tokens.CreateAccessToken(user.UserID, role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("user_id", user.UserID))
	span.SetStatus(codes.Ok, "")
	return access, nil
}

// Logout blacklists the access token for its remaining lifetime
func (s *authService) Logout(ctx context.Context, accessToken string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		span.SetStatus(codes.Error, "undecodable token")
		return false, ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		// Nothing to blacklist; the token can no longer be used
		span.SetStatus(codes.Ok, "token already expired")
		return false, nil
	}

	if err := s.blacklist.Add(ctx, accessToken, ttl); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}

// ForgotPassword issues a reset token and mails the reset link
func (s *authService) ForgotPassword(ctx context.Context, role domain.Role, email string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.forgot_password")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return ErrUserNotFound
	}

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return ErrUserNotFound
	}
	if user.GoogleVerified {
		span.SetStatus(codes.Error, "google account")
		return ErrGoogleAccount
	}

	token, err := s.reset.Generate(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	link := fmt.Sprintf("%s/%s/reset-password?email=%s&token=%s",
		s.config.FrontendURL, role, url.QueryEscape(email), url.QueryEscape(token))
	if err := s.notifier.SendResetLink(ctx, email, link); err != nil {
		logger.Get().Warn("reset mail not published", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ResetPassword redeems a reset token and stores the new password
func (s *authService) ResetPassword(ctx context.Context, role domain.Role, req *dto.ResetPasswordRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.reset_password")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	valid, err := s.reset.Verify(ctx, req.Email, req.Token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !valid {
		span.SetStatus(codes.Error, "invalid reset token")
		return ErrInvalidOrExpiredReset
	}

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return ErrUserNotFound
	}
	user, err := repo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return ErrUserNotFound
	}
	if user.GoogleVerified {
		span.SetStatus(codes.Error, "google account")
		return ErrGoogleAccount
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.NewPassword)) == nil {
		span.SetStatus(codes.Error, "same password")
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := repo.UpdatePassword(ctx, user.UserID, string(hash)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.reset.Consume(ctx, req.Email, req.Token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ChangePassword rotates the password of an authenticated principal
func (s *authService) ChangePassword(ctx context.Context, role domain.Role, userID string, req *dto.ChangePasswordRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.change_password")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return ErrUserNotFound
	}
	user, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return ErrInvalidCredentials
	}
	if req.OldPassword == req.NewPassword {
		span.SetStatus(codes.Error, "same password")
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetProfile returns the principal's own document
func (s *authService) GetProfile(ctx context.Context, role domain.Role, userID string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_profile")
	defer span.End()

	repo, ok := s.repos[role]
	if !ok {
		return nil, ErrUserNotFound
	}
	user, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// UpdateProfile edits the principal's own document
func (s *authService) UpdateProfile(ctx context.Context, role domain.Role, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.update_profile")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	repo, ok := s.repos[role]
	if !ok {
		return nil, ErrUserNotFound
	}
	user, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := repo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// issueTokens mints the token pair and seeds the status cache
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*LoginResult, error) {
	access, err := s.tokens.CreateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.CreateRefreshToken(user.UserID)
	if err != nil {
		return nil, err
	}

	// Cache failure must not fail the login
	if err := s.statusCache.SetSnapshot(ctx, user.Role, user.UserID, user.Snapshot()); err != nil {
		logger.Get().Warn("status cache not seeded",
			zap.String("user_id", user.UserID),
			zap.Error(err),
		)
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toUserResponse(user),
	}, nil
}

// checkEmailFree rejects an email already registered as client or vendor
func (s *authService) checkEmailFree(ctx context.Context, email string) error {
	for _, role := range []domain.Role{domain.RoleClient, domain.RoleVendor} {
		exists, err := s.repos[role].ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}
	return nil
}

// consumeOtp pops the pending code and compares it
func (s *authService) consumeOtp(ctx context.Context, email, otp string) error {
	code, found, err := s.otps.Consume(ctx, email)
	if err != nil {
		return err
	}
	if !found || code != otp {
		return ErrInvalidOtp
	}
	return nil
}

// findByUserID searches every principal collection for the id
func (s *authService) findByUserID(ctx context.Context, userID string) (*domain.User, domain.Role, error) {
	for _, role := range []domain.Role{domain.RoleClient, domain.RoleVendor, domain.RoleAdmin} {
		repo, ok := s.repos[role]
		if !ok {
			continue
		}
		user, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, "", err
		}
		if user != nil {
			return user, role, nil
		}
	}
	return nil, "", nil
}

// generateOtp returns a 6-digit numeric code
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// toUserResponse converts User to UserResponse
func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.UserID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           string(user.Role),
		Status:         string(user.Status),
		VendorID:       user.VendorID,
		VendorStatus:   string(user.VendorStatus),
		GoogleVerified: user.GoogleVerified,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}
