package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserRepo struct {
	users    map[string]*domain.User
	getCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (r *mockUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (r *mockUserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	r.getCalls++
	return r.users[userID], nil
}
func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}
func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *mockUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (r *mockUserRepo) UpdateStatus(ctx context.Context, userID string, status domain.Status) error {
	return nil
}
func (r *mockUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return nil
}
func (r *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	return nil, 0, nil
}
func (r *mockUserRepo) ListByVendorStatus(ctx context.Context, status domain.VendorStatus, limit, offset int) ([]*domain.User, int64, error) {
	return nil, 0, nil
}
func (r *mockUserRepo) UpdateVendorDecision(ctx context.Context, userID string, status domain.VendorStatus, reason string) error {
	return nil
}

type mockBlacklist struct {
	entries map[string]bool
}

func (b *mockBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	b.entries[token] = true
	return nil
}
func (b *mockBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	return b.entries[token], nil
}

type mockStatusCache struct {
	snapshots map[string]domain.StatusSnapshot
	adminFlag string
	adminSet  bool
}

func newMockStatusCache() *mockStatusCache {
	return &mockStatusCache{snapshots: make(map[string]domain.StatusSnapshot)}
}

func (c *mockStatusCache) key(role domain.Role, userID string) string {
	return string(role) + ":" + userID
}
func (c *mockStatusCache) GetSnapshot(ctx context.Context, role domain.Role, userID string) (*domain.StatusSnapshot, error) {
	snap, ok := c.snapshots[c.key(role, userID)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}
func (c *mockStatusCache) SetSnapshot(ctx context.Context, role domain.Role, userID string, snap domain.StatusSnapshot) error {
	c.snapshots[c.key(role, userID)] = snap
	return nil
}
func (c *mockStatusCache) DeleteSnapshot(ctx context.Context, role domain.Role, userID string) error {
	delete(c.snapshots, c.key(role, userID))
	return nil
}
func (c *mockStatusCache) GetAdminFlag(ctx context.Context) (string, bool, error) {
	return c.adminFlag, c.adminSet, nil
}
func (c *mockStatusCache) SetAdminFlag(ctx context.Context, value string) error {
	c.adminFlag = value
	c.adminSet = true
	return nil
}

type authFixture struct {
	tokens    service.TokenService
	blacklist *mockBlacklist
	cache     *mockStatusCache
	clients   *mockUserRepo
	vendors   *mockUserRepo
	admins    *mockUserRepo
	auth      *Auth
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		blacklist: &mockBlacklist{entries: make(map[string]bool)},
		cache:     newMockStatusCache(),
		clients:   newMockUserRepo(),
		vendors:   newMockUserRepo(),
		admins:    newMockUserRepo(),
	}
	f.tokens = service.NewTokenService(&service.TokenServiceConfig{
		Secret:         "test-secret",
		AccessTokenTTL: 15 * time.Minute,
	})
	f.auth = NewAuth(f.tokens, f.blacklist, f.cache, map[domain.Role]repository.UserRepository{
		domain.RoleClient: f.clients,
		domain.RoleVendor: f.vendors,
		domain.RoleAdmin:  f.admins,
	})
	return f
}

func (f *authFixture) router(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{f.auth.Authenticate()}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/protected", chain...)
	return router
}

func (f *authFixture) request(t *testing.T, router *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture()
	router := f.router()

	t.Run("missing header", func(t *testing.T) {
		w := f.request(t, router, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		w := f.request(t, router, "garbage")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		w := f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("blacklisted token rejected", func(t *testing.T) {
		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		f.blacklist.entries[token] = true
		w := f.request(t, router, token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestRequireActive(t *testing.T) {
	t.Run("cached block rejects without a document lookup", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireActive(domain.RoleClient))
		_ = f.cache.SetSnapshot(context.Background(), domain.RoleClient, "client-1", domain.StatusSnapshot{Status: domain.StatusBlocked})

		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		w := f.request(t, router, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		if f.clients.getCalls != 0 {
			t.Errorf("document lookups = %d, want 0 on a cache hit", f.clients.getCalls)
		}
	})

	t.Run("miss does one lookup then caches", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireActive(domain.RoleClient))
		f.clients.users["client-1"] = &domain.User{
			UserID: "client-1",
			Role:   domain.RoleClient,
			Status: domain.StatusActive,
		}

		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		w := f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if f.clients.getCalls != 1 {
			t.Errorf("document lookups = %d, want exactly 1 on a miss", f.clients.getCalls)
		}

		// Second request must be served from the cache
		w = f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Fatalf("second status = %d, want 200", w.Code)
		}
		if f.clients.getCalls != 1 {
			t.Errorf("document lookups = %d after second request, want still 1", f.clients.getCalls)
		}
	})

	t.Run("pending vendor is rejected", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireActive(domain.RoleVendor))
		f.vendors.users["vendor-1"] = &domain.User{
			UserID:       "vendor-1",
			Role:         domain.RoleVendor,
			Status:       domain.StatusActive,
			VendorStatus: domain.VendorPending,
		}

		token, _ := f.tokens.CreateAccessToken("vendor-1", domain.RoleVendor)
		w := f.request(t, router, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("approved vendor passes", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireActive(domain.RoleVendor))
		f.vendors.users["vendor-1"] = &domain.User{
			UserID:       "vendor-1",
			Role:         domain.RoleVendor,
			Status:       domain.StatusActive,
			VendorStatus: domain.VendorApproved,
		}

		token, _ := f.tokens.CreateAccessToken("vendor-1", domain.RoleVendor)
		w := f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("role mismatch", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireActive(domain.RoleVendor))
		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		w := f.request(t, router, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("cached flag admits without a lookup", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireAdmin())
		_ = f.cache.SetAdminFlag(context.Background(), "true")

		token, _ := f.tokens.CreateAccessToken("admin-1", domain.RoleAdmin)
		w := f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if f.admins.getCalls != 0 {
			t.Errorf("document lookups = %d, want 0", f.admins.getCalls)
		}
	})

	t.Run("non-true cached flag rejects", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireAdmin())
		_ = f.cache.SetAdminFlag(context.Background(), "false")

		token, _ := f.tokens.CreateAccessToken("admin-1", domain.RoleAdmin)
		w := f.request(t, router, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("miss verifies against the admins collection", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireAdmin())
		f.admins.users["admin-1"] = &domain.User{
			UserID: "admin-1",
			Role:   domain.RoleAdmin,
			Status: domain.StatusActive,
		}

		token, _ := f.tokens.CreateAccessToken("admin-1", domain.RoleAdmin)
		w := f.request(t, router, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if f.cache.adminFlag != "true" {
			t.Error("admin flag not repopulated after the lookup")
		}
	})

	t.Run("client token cannot reach admin routes", func(t *testing.T) {
		f := newAuthFixture()
		router := f.router(f.auth.RequireAdmin())
		token, _ := f.tokens.CreateAccessToken("client-1", domain.RoleClient)
		w := f.request(t, router, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}
