package di

import (
	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/handler"
	"github.com/aparnaappu2002/planzo-backend/internal/middleware"
	"github.com/aparnaappu2002/planzo-backend/internal/notifier"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
	"github.com/aparnaappu2002/planzo-backend/pkg/config"
	"github.com/aparnaappu2002/planzo-backend/pkg/mongodb"
	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
)

// Container holds all dependencies of the service
type Container struct {
	// Infrastructure
	DB    *mongodb.DB
	Cache *pkgredis.Client

	// Repositories
	UserRepos   map[domain.Role]repository.UserRepository
	EventRepo   repository.EventRepository
	Blacklist   repository.TokenBlacklist
	StatusCache repository.StatusCache
	OtpStore    repository.OtpStore
	ResetStore  repository.ResetTokenStore

	// Services
	TokenService service.TokenService
	ResetService service.ResetService
	AuthService  service.AuthService
	EventService service.EventService
	AdminService service.AdminService

	// Middleware
	Auth *middleware.Auth

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	EventHandler  *handler.EventHandler
	AdminHandler  *handler.AdminHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config   *config.Config
	DB       *mongodb.DB
	Cache    *pkgredis.Client
	Notifier notifier.Notifier
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Cache: cfg.Cache,
	}
	conf := cfg.Config

	// Repositories
	c.UserRepos = map[domain.Role]repository.UserRepository{
		domain.RoleClient: repository.NewMongoUserRepository(cfg.DB.Database(), domain.RoleClient),
		domain.RoleVendor: repository.NewMongoUserRepository(cfg.DB.Database(), domain.RoleVendor),
		domain.RoleAdmin:  repository.NewMongoUserRepository(cfg.DB.Database(), domain.RoleAdmin),
	}
	c.EventRepo = repository.NewMongoEventRepository(cfg.DB.Database())
	c.Blacklist = repository.NewRedisTokenBlacklist(cfg.Cache)
	c.StatusCache = repository.NewRedisStatusCache(cfg.Cache, conf.Auth.StatusCacheTTL)
	c.OtpStore = repository.NewRedisOtpStore(cfg.Cache)
	c.ResetStore = repository.NewRedisResetTokenStore(cfg.Cache)

	// Services
	c.TokenService = service.NewTokenService(&service.TokenServiceConfig{
		Secret:          conf.JWT.Secret,
		AccessTokenTTL:  conf.JWT.AccessTokenTTL,
		RefreshTokenTTL: conf.JWT.RefreshTokenTTL,
		Issuer:          conf.JWT.Issuer,
	})
	c.ResetService = service.NewResetService(c.ResetStore, &service.ResetServiceConfig{
		Secret:   conf.JWT.ResetSecret,
		TokenTTL: conf.JWT.ResetTokenTTL,
		UsedTTL:  conf.Auth.ResetUsedTTL,
	})
	c.AuthService = service.NewAuthService(
		c.UserRepos,
		c.TokenService,
		c.ResetService,
		c.OtpStore,
		c.StatusCache,
		c.Blacklist,
		cfg.Notifier,
		&service.AuthServiceConfig{
			BcryptCost:     conf.Auth.BcryptCost,
			OtpTTL:         conf.Auth.OtpTTL,
			StatusCacheTTL: conf.Auth.StatusCacheTTL,
			FrontendURL:    conf.Frontend.BaseURL,
		},
	)
	c.EventService = service.NewEventService(c.EventRepo)
	c.AdminService = service.NewAdminService(c.UserRepos, c.StatusCache, cfg.Notifier)

	// Middleware
	c.Auth = middleware.NewAuth(c.TokenService, c.Blacklist, c.StatusCache, c.UserRepos)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Cache)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, conf.IsProduction())
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.AdminHandler = handler.NewAdminHandler(c.AdminService)

	return c
}
