package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
	"github.com/aparnaappu2002/planzo-backend/pkg/logger"
	"github.com/aparnaappu2002/planzo-backend/pkg/response"
)

const identityKey = "identity"

// Identity is the authenticated principal attached to the gin context
type Identity struct {
	ID   string
	Role domain.Role
}

// IdentityFrom extracts the authenticated identity from the context
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Auth holds the dependencies of the gate-check middleware chain
type Auth struct {
	tokens      service.TokenService
	blacklist   repository.TokenBlacklist
	statusCache repository.StatusCache
	repos       map[domain.Role]repository.UserRepository
}

// NewAuth creates the middleware set
func NewAuth(
	tokens service.TokenService,
	blacklist repository.TokenBlacklist,
	statusCache repository.StatusCache,
	repos map[domain.Role]repository.UserRepository,
) *Auth {
	return &Auth{
		tokens:      tokens,
		blacklist:   blacklist,
		statusCache: statusCache,
		repos:       repos,
	}
}

// Authenticate parses the bearer token, verifies it, consults the
// blacklist and attaches the typed identity to the context.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusBadRequest, "MISSING_TOKEN", "Authorization header is required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.AbortError(c, http.StatusBadRequest, "MALFORMED_TOKEN", "Authorization header must be a bearer token")
			return
		}
		token := parts[1]

		claims, err := a.tokens.VerifyAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		blacklisted, err := a.blacklist.Contains(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
			return
		}
		if blacklisted {
			response.AbortError(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been logged out")
			return
		}

		c.Set(identityKey, Identity{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin gates a route on the admin flag. The flag is cached;
// a miss falls through to the admins collection and repopulates it.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || id.Role != domain.RoleAdmin {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		ctx := c.Request.Context()
		flag, found, err := a.statusCache.GetAdminFlag(ctx)
		if err != nil {
			// Cache failure falls through to the document store
			logger.Get().Warn("admin flag read failed", zap.Error(err))
			found = false
		}
		if found {
			if flag != "true" {
				response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
				return
			}
			c.Next()
			return
		}

		admin, err := a.repos[domain.RoleAdmin].GetByUserID(ctx, id.ID)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
			return
		}
		if admin == nil || admin.IsBlocked() {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		if err := a.statusCache.SetAdminFlag(ctx, "true"); err != nil {
			logger.Get().Warn("admin flag not cached", zap.Error(err))
		}
		c.Next()
	}
}

// RequireActive gates a route on the role matching and the account not
// being blocked. Vendors additionally need an approved application.
// Cache-aside: a snapshot hit decides without a document lookup; a
// miss does exactly one lookup and repopulates the cache.
func (a *Auth) RequireActive(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || id.Role != role {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied for this role")
			return
		}

		ctx := c.Request.Context()
		snap, err := a.statusCache.GetSnapshot(ctx, role, id.ID)
		if err != nil {
			logger.Get().Warn("status cache read failed", zap.Error(err))
			snap = nil
		}

		if snap == nil {
			user, err := a.repos[role].GetByUserID(ctx, id.ID)
			if err != nil {
				response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
				return
			}
			if user == nil {
				response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Account no longer exists")
				return
			}
			fresh := user.Snapshot()
			if err := a.statusCache.SetSnapshot(ctx, role, id.ID, fresh); err != nil {
				logger.Get().Warn("status cache not repopulated", zap.Error(err))
			}
			snap = &fresh
		}

		if snap.Status == domain.StatusBlocked {
			response.AbortError(c, http.StatusForbidden, "USER_BLOCKED", "Account is blocked")
			return
		}
		if role == domain.RoleVendor && snap.VendorStatus != domain.VendorApproved {
			response.AbortError(c, http.StatusForbidden, "VENDOR_NOT_APPROVED", "Vendor application is not approved")
			return
		}

		c.Next()
	}
}
