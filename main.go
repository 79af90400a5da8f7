package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/internal/di"
	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/notifier"
	"github.com/aparnaappu2002/planzo-backend/pkg/config"
	"github.com/aparnaappu2002/planzo-backend/pkg/kafka"
	"github.com/aparnaappu2002/planzo-backend/pkg/logger"
	"github.com/aparnaappu2002/planzo-backend/pkg/mongodb"
	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
	"github.com/aparnaappu2002/planzo-backend/pkg/retry"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Planzo backend...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Connect MongoDB
	db, err := mongodb.New(ctx, &mongodb.Config{
		URI:           cfg.MongoDB.URI,
		Database:      cfg.MongoDB.Database,
		ConnTimeout:   cfg.MongoDB.Timeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("MongoDB connection failed: %v", err))
	}
	defer db.Close(ctx)
	if err := db.EnsureIndexes(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to ensure indexes: %v", err))
	}
	appLog.Info(fmt.Sprintf("MongoDB connected (database: %s)", cfg.MongoDB.Database))

	// Connect Redis
	cache, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer cache.Close()
	appLog.Info(fmt.Sprintf("Redis connected (%s)", cfg.Redis.Addr()))

	// Connect Kafka (optional)
	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:       cfg.Kafka.Brokers,
			ClientID:      cfg.Kafka.ClientID,
			MaxRetries:    cfg.Kafka.MaxRetries,
			RetryInterval: time.Second,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
		}
		defer producer.Close()
		notif = notifier.NewKafkaNotifier(producer, cfg.Kafka.MailTopic, retry.DefaultConfig())
		appLog.Info(fmt.Sprintf("Kafka connected (topic: %s)", cfg.Kafka.MailTopic))
	} else {
		appLog.Warn("Kafka disabled, outbound mail events are discarded")
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:   cfg,
		DB:       db,
		Cache:    cache,
		Notifier: notif,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	registerRoutes(router, container)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Planzo backend listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

func registerRoutes(router *gin.Engine, c *di.Container) {
	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			// Per-role auth flows share handlers bound to the role
			for _, role := range []domain.Role{domain.RoleClient, domain.RoleVendor, domain.RoleAdmin} {
				r := auth.Group("/" + string(role))
				r.POST("/login", c.AuthHandler.Login(role))
				r.POST("/password/forgot", c.AuthHandler.ForgotPassword(role))
				r.POST("/password/reset", c.AuthHandler.ResetPassword(role))
				if role != domain.RoleAdmin {
					r.POST("/otp/request", c.AuthHandler.RequestOtp)
					r.POST("/otp/resend", c.AuthHandler.RequestOtp)
				}
			}
			auth.POST("/client/register", c.AuthHandler.RegisterClient)
			auth.POST("/client/google", c.AuthHandler.GoogleLogin)
			auth.POST("/vendor/register", c.AuthHandler.RegisterVendor)
			auth.POST("/refresh", c.AuthHandler.Refresh)
			auth.POST("/logout", c.AuthHandler.Logout)

			// Authenticated endpoints
			auth.PUT("/password", c.Auth.Authenticate(), c.AuthHandler.ChangePassword)
		}

		// Public event listing
		v1.GET("/events", c.EventHandler.List)
		v1.GET("/events/:id", c.EventHandler.Get)

		// Client endpoints
		client := v1.Group("/client")
		client.Use(c.Auth.Authenticate(), c.Auth.RequireActive(domain.RoleClient))
		{
			client.GET("/me", c.AuthHandler.GetProfile)
			client.PUT("/me", c.AuthHandler.UpdateProfile)
		}

		// Vendor endpoints (approved vendors only)
		vendor := v1.Group("/vendor")
		vendor.Use(c.Auth.Authenticate(), c.Auth.RequireActive(domain.RoleVendor))
		{
			vendor.GET("/me", c.AuthHandler.GetProfile)
			vendor.PUT("/me", c.AuthHandler.UpdateProfile)
			vendor.POST("/events", c.EventHandler.Create)
			vendor.GET("/events", c.EventHandler.ListOwn)
			vendor.PUT("/events/:id", c.EventHandler.Update)
			vendor.DELETE("/events/:id", c.EventHandler.Cancel)
		}

		// Admin endpoints
		admin := v1.Group("/admin")
		admin.Use(c.Auth.Authenticate(), c.Auth.RequireAdmin())
		{
			admin.GET("/clients", c.AdminHandler.ListClients)
			admin.GET("/vendors", c.AdminHandler.ListVendors)
			admin.GET("/vendors/pending", c.AdminHandler.ListPendingVendors)
			admin.PATCH("/users/:role/:id/block", c.AdminHandler.Block)
			admin.PATCH("/users/:role/:id/unblock", c.AdminHandler.Unblock)
			admin.PATCH("/vendors/:id/approve", c.AdminHandler.ApproveVendor)
			admin.PATCH("/vendors/:id/reject", c.AdminHandler.RejectVendor)
		}
	}
}
