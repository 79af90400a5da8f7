package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
)

// TokenServiceConfig holds configuration for TokenService
type TokenServiceConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// AccessClaims is the decoded view of an access token
type AccessClaims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims is the decoded view of a refresh token
type RefreshClaims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService mints and verifies the HS256 session tokens
type TokenService interface {
	// CreateAccessToken mints a short-lived access token carrying the role
	CreateAccessToken(userID string, role domain.Role) (string, error)
	// CreateRefreshToken mints a longer-lived refresh token without the role
	CreateRefreshToken(userID string) (string, error)
	// VerifyAccessToken checks signature and expiry
	VerifyAccessToken(token string) (*AccessClaims, error)
	// VerifyRefreshToken checks signature and expiry
	VerifyRefreshToken(token string) (*RefreshClaims, error)
	// Decode parses claims without verifying the signature. Only for
	// reading exp when computing a blacklist TTL.
	Decode(token string) (*AccessClaims, error)
}

type tokenService struct {
	config *TokenServiceConfig
}

// NewTokenService creates a new TokenService
func NewTokenService(config *TokenServiceConfig) TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 24 * time.Hour
	}
	return &tokenService{config: config}
}

// CreateAccessToken mints a short-lived access token carrying the role
func (s *tokenService) CreateAccessToken(userID string, role domain.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iss":  s.config.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.config.AccessTokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.config.Secret))
}

// CreateRefreshToken mints a longer-lived refresh token without the role
func (s *tokenService) CreateRefreshToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": s.config.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.config.RefreshTokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.config.Secret))
}

// VerifyAccessToken checks signature and expiry
func (s *tokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return accessClaimsFromMap(claims)
}

// VerifyRefreshToken checks signature and expiry
func (s *tokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &RefreshClaims{
		UserID:    sub,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// Decode parses claims without verifying the signature
func (s *tokenService) Decode(tokenString string) (*AccessClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return accessClaimsFromMap(claims)
}

func (s *tokenService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func accessClaimsFromMap(claims jwt.MapClaims) (*AccessClaims, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	iat, _ := claims["iat"].(float64)

	return &AccessClaims{
		UserID:    sub,
		Role:      domain.Role(role),
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
