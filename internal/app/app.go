// Package app assembles the HTTP service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"profileauth/internal/auth"
	"profileauth/internal/cache"
	"profileauth/internal/config"
	"profileauth/internal/db"
	"profileauth/internal/handler"
	"profileauth/internal/logger"
	"profileauth/internal/repository"
	"profileauth/internal/router"
	"profileauth/internal/service"
)

const (
	cachePrefix     = "profileauth:"
	shutdownTimeout = 5 * time.Second
)

// App owns the server and the connections it was built on.
type App struct {
	cfg   *config.Config
	db    *gorm.DB
	cache *cache.Client
	echo  *echo.Echo
}

// New connects to the database and cache and wires every route.
func New(cfg *config.Config) (*App, error) {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, strings.EqualFold(cfg.LogLevel, "debug"))
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if cfg.ResetDB {
		logger.Warningf("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			return nil, err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}

	cacheClient := NewCache(cfg)
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	store := NewCredentialStore(gormDB, cfg, cacheClient)

	authService := service.NewAuthService(store, tokens, service.WithBanEnforcement(cfg.EnforceBans))
	profileService := service.NewProfileService(store, cacheClient)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	router.Register(e, cfg, tokens,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(profileService),
	)

	return &App{cfg: cfg, db: gormDB, cache: cacheClient, echo: e}, nil
}

// NewCache returns the profile cache client, or nil when caching is disabled.
func NewCache(cfg *config.Config) *cache.Client {
	if !cfg.CacheEnabled {
		return nil
	}
	return cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cachePrefix)
}

// NewCredentialStore builds the credential store over gormDB. Mutations drop
// the affected views from profiles, which may be nil.
func NewCredentialStore(gormDB *gorm.DB, cfg *config.Config, profiles *cache.Client) service.CredentialStore {
	roles := service.NewRoleService(repository.NewRoleRepository(gormDB))
	return service.NewCredentialStore(
		repository.NewUserRepository(gormDB),
		roles,
		auth.NewBcryptHasher(cfg.BcryptCost),
		service.WithProfileCache(profiles),
	)
}

// Handler exposes the routed echo instance.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run starts serving in the background.
func (a *App) Run() {
	go func() {
		logger.Infof("listening on :%s", a.cfg.ServerPort)
		if err := a.echo.Start(":" + a.cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server start: %v", err)
			os.Exit(1)
		}
	}()
}

// Wait blocks until SIGINT or SIGTERM.
func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down...")
}

// Shutdown drains in-flight requests and closes the cache and database.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.echo.Shutdown(ctx)
	if err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}

	if cerr := a.cache.Close(); cerr != nil {
		logger.Errorf("closing redis: %v", cerr)
	}
	if sqlDB, derr := a.db.DB(); derr == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			logger.Errorf("closing database: %v", cerr)
		}
	}
	return err
}
