// @title                       E-commerce API
// @version                     1.0
// @description                 Catalog and user API with JWT authentication and role-based authorization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/devtalles/apiecommerce/docs"
	"github.com/devtalles/apiecommerce/internal/api"
	"github.com/devtalles/apiecommerce/internal/api/handler"
	"github.com/devtalles/apiecommerce/internal/api/middleware"
	"github.com/devtalles/apiecommerce/internal/core/service"
	"github.com/devtalles/apiecommerce/internal/infrastructure/config"
	mongodb "github.com/devtalles/apiecommerce/internal/infrastructure/db/mongo"
	redisdb "github.com/devtalles/apiecommerce/internal/infrastructure/db/redis"
	"github.com/devtalles/apiecommerce/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "apiecommerce"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "apiecommerce",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	users := mongodb.NewUserRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	products := mongodb.NewProductRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, categories, products); err != nil {
		return err
	}

	health := map[string]handler.PingFunc{"mongodb": mongodb.Pinger(db)}

	var categoryCache middleware.ResponseStore
	if cfg.Cache.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		categoryCache = redisdb.NewResponseCache(rdb, "categories", cfg.Cache.TTL)
		health["redis"] = redisdb.Pinger(rdb)
	}

	e := api.NewRouter(api.Deps{
		Auth: service.NewAuthService(
			users,
			tokens,
			service.NewBcryptHasher(cfg.Auth.BcryptCost),
			logger.Component(log, "auth"),
			service.WithUniformLoginErrors(cfg.Auth.UniformLoginErrors),
		),
		Users:         service.NewUserService(users),
		Categories:    service.NewCategoryService(categories, logger.Component(log, "categories")),
		Products:      service.NewProductService(products, categories, logger.Component(log, "products")),
		Tokens:        tokens,
		CategoryCache: categoryCache,
		Health:        health,
		CORSOrigins:   cfg.CORS.AllowOrigins,
		Swagger:       cfg.IsDevelopment(),
		Log:           log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Dur("token_ttl", tokens.TTL()).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
