package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/IgnacyBerent/biomed-kb-api/api/swagger"
	"github.com/IgnacyBerent/biomed-kb-api/internal/handler"
	"github.com/IgnacyBerent/biomed-kb-api/internal/middleware"
	"github.com/IgnacyBerent/biomed-kb-api/internal/repository"
	"github.com/IgnacyBerent/biomed-kb-api/internal/service"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/cache"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/config"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/database"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/logger"
	corsmiddleware "github.com/IgnacyBerent/biomed-kb-api/pkg/middleware/cors"
	ratelimitmiddleware "github.com/IgnacyBerent/biomed-kb-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/IgnacyBerent/biomed-kb-api/pkg/middleware/requestid"
)

// @title BioMed KB API
// @version 1.0.0
// @description Internal knowledge base for biomedical additive manufacturing literature
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := newStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open record store", "driver", cfg.Store.Driver, "error", err)
	}

	validate := validator.New()

	authService := service.NewAuthService(store, validate, logr, service.AuthConfig{
		SessionSecret: cfg.Session.Secret,
		SessionExpiry: cfg.Session.Expiration,
		Issuer:        cfg.Session.Issuer,
	})
	articleService := service.NewArticleService(store, validate, logr)
	exportService := service.NewExportService(articleService)
	metricsService := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authService)
	articleHandler := handler.NewArticleHandler(articleService, metricsService)
	exportHandler := handler.NewExportHandler(exportService, articleService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		auth.POST("/setup", authHandler.Setup)
		auth.POST("/login", ratelimitmiddleware.PerClient(cfg.Login.RatePerMinute, cfg.Login.Burst), authHandler.Login)
		auth.GET("/session", middleware.Session(authService), authHandler.Session)

		articles := api.Group("/articles", middleware.Session(authService))
		articles.POST("", articleHandler.Create)
		articles.GET("", articleHandler.List)
		articles.POST("/check", articleHandler.Check)
		articles.GET("/export", exportHandler.Download)

		api.GET("/export/articles", middleware.APIKey(authService), exportHandler.ExternalList)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newStore(cfg *config.Config) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return repository.NewSQLStore(db), nil
	case config.StoreSQLite:
		db, err := database.NewSQLite(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return repository.NewSQLStore(db), nil
	case config.StoreRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
