package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/middleware"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
	"github.com/aparnaappu2002/planzo-backend/pkg/response"
)

const refreshCookieName = "refreshtoken"

// refresh cookie outlives the refresh JWT so expiry is enforced by
// token verification, not cookie lifetime
const refreshCookieMaxAge = 7 * 24 * 3600

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

// RequestOtp handles OTP request and resend. Resending simply
// replaces the pending code.
// POST /api/v1/auth/{client|vendor}/otp/request
// POST /api/v1/auth/{client|vendor}/otp/resend
func (h *AuthHandler) RequestOtp(c *gin.Context) {
	var req dto.OtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := dto.ValidateEmailFormat(req.Email); !valid {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg, "")
		return
	}

	if err := h.authService.RequestOtp(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Verification code sent"})
}

// RegisterClient handles client registration
// POST /api/v1/auth/client/register
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.ValidateEmail(); !valid {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg, "")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	user, err := h.authService.RegisterClient(c.Request.Context(), &req)
	if err != nil {
		h.registerError(c, err)
		return
	}

	response.Created(c, user)
}

// RegisterVendor handles vendor registration
// POST /api/v1/auth/vendor/register
func (h *AuthHandler) RegisterVendor(c *gin.Context) {
	var req dto.RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.ValidateEmail(); !valid {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg, "")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	user, err := h.authService.RegisterVendor(c.Request.Context(), &req)
	if err != nil {
		h.registerError(c, err)
		return
	}

	response.Created(c, user)
}

func (h *AuthHandler) registerError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmailExists) {
		response.Conflict(c, "EMAIL_EXISTS", "Email is already registered")
		return
	}
	if errors.Is(err, service.ErrInvalidOtp) {
		response.Error(c, http.StatusBadRequest, "INVALID_OTP", "Invalid or expired verification code", "")
		return
	}
	response.InternalError(c, err)
}

// Login handles login for one role's collection
// POST /api/v1/auth/{client|vendor|admin}/login
func (h *AuthHandler) Login(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		result, err := h.authService.Login(c.Request.Context(), role, req.Email, req.Password)
		if err != nil {
			h.loginError(c, err)
			return
		}

		h.setRefreshCookie(c, result.RefreshToken)
		response.Success(c, dto.AuthResponse{
			AccessToken: result.AccessToken,
			User:        result.User,
		})
	}
}

// GoogleLogin handles Google sign-in for clients
// POST /api/v1/auth/client/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		h.loginError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.Success(c, dto.AuthResponse{
		AccessToken: result.AccessToken,
		User:        result.User,
	})
}

func (h *AuthHandler) loginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserBlocked) {
		response.Forbidden(c, "USER_BLOCKED", "Account is blocked")
		return
	}
	if errors.Is(err, service.ErrUserNotFound) {
		response.Error(c, http.StatusBadRequest, "USER_NOT_FOUND", "No account with this email", "")
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid email or password", "")
		return
	}
	response.InternalError(c, err)
}

// Refresh mints a new access token from the refresh cookie
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(refreshCookieName)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusBadRequest, "MISSING_TOKEN", "Refresh token cookie is required", "")
		return
	}

	access, err := h.authService.RefreshToken(c.Request.Context(), refresh)
	if err != nil {
		if errors.Is(err, service.ErrUserBlocked) {
			response.Forbidden(c, "USER_BLOCKED", "Account is blocked")
			return
		}
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenExpired) ||
			errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired refresh token", "")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"accessToken": access})
}

// Logout blacklists the presented access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		response.Error(c, http.StatusBadRequest, "MISSING_TOKEN", "Authorization header must be a bearer token", "")
		return
	}

	blacklisted, err := h.authService.Logout(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Token could not be decoded", "")
			return
		}
		response.InternalError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	if blacklisted {
		response.Success(c, gin.H{"message": "Logged out successfully"})
		return
	}
	response.Success(c, gin.H{"message": "Token already expired"})
}

// ForgotPassword mails a reset link
// POST /api/v1/auth/{client|vendor|admin}/password/forgot
func (h *AuthHandler) ForgotPassword(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		if err := h.authService.ForgotPassword(c.Request.Context(), role, req.Email); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.Error(c, http.StatusBadRequest, "USER_NOT_FOUND", "No account with this email", "")
				return
			}
			if errors.Is(err, service.ErrGoogleAccount) {
				response.Error(c, http.StatusBadRequest, "GOOGLE_ACCOUNT", "This account signs in with Google", "")
				return
			}
			response.InternalError(c, err)
			return
		}

		response.Success(c, gin.H{"message": "Reset link sent"})
	}
}

// ResetPassword redeems a reset token
// POST /api/v1/auth/{client|vendor|admin}/password/reset
func (h *AuthHandler) ResetPassword(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if valid, msg := req.ValidatePassword(); !valid {
			response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
			return
		}

		if err := h.authService.ResetPassword(c.Request.Context(), role, &req); err != nil {
			if errors.Is(err, service.ErrInvalidOrExpiredReset) {
				response.Error(c, http.StatusBadRequest, "INVALID_RESET_TOKEN", "Invalid or expired reset token", "")
				return
			}
			if errors.Is(err, service.ErrSamePassword) {
				response.Error(c, http.StatusBadRequest, "SAME_PASSWORD", "New password must differ from the old one", "")
				return
			}
			if errors.Is(err, service.ErrUserNotFound) {
				response.Error(c, http.StatusBadRequest, "USER_NOT_FOUND", "No account with this email", "")
				return
			}
			if errors.Is(err, service.ErrGoogleAccount) {
				response.Error(c, http.StatusBadRequest, "GOOGLE_ACCOUNT", "This account signs in with Google", "")
				return
			}
			response.InternalError(c, err)
			return
		}

		response.Success(c, gin.H{"message": "Password reset"})
	}
}

// ChangePassword rotates the password of the authenticated principal
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), id.Role, id.ID, &req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Old password is incorrect", "")
			return
		}
		if errors.Is(err, service.ErrSamePassword) {
			response.Error(c, http.StatusBadRequest, "SAME_PASSWORD", "New password must differ from the old one", "")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Password changed"})
}

// GetProfile returns the authenticated principal's document
// GET /api/v1/client/me, GET /api/v1/vendor/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), id.Role, id.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateProfile edits the authenticated principal's document
// PUT /api/v1/client/me, PUT /api/v1/vendor/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), id.Role, id.ID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, user)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, refreshCookieMaxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.cookieSecure, true)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
