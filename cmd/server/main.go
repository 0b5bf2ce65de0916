package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/config"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/controller"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/geekcommerce/geek-commerce-backend/internal/router"
	"github.com/geekcommerce/geek-commerce-backend/internal/scheduler"
	"github.com/geekcommerce/geek-commerce-backend/internal/storage"
	ws "github.com/geekcommerce/geek-commerce-backend/internal/websocket"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/geekcommerce/geek-commerce-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.LogFormat == "console",
	})

	logger.Info("Starting Geek Commerce Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// The catalog cache is optional; reads fall through to the database
	// without it.
	var cache service.CatalogCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewCatalogCache(redis.GetClient(), cfg.Cache.TTL)
			defer redis.Close()
		}
	}

	var imageStorage service.ImageStorage
	if cfg.S3.Bucket != "" {
		imageStorage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	} else {
		logger.Warn("S3 bucket not configured, image uploads disabled", nil)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	brandRepo := repository.NewBrandRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	variantRepo := repository.NewVariantRepository(conn)
	imageRepo := repository.NewImageRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, cache)
	brandService := service.NewBrandService(brandRepo, cache)
	productService := service.NewProductService(productRepo, categoryRepo, brandRepo, cache)
	variantService := service.NewVariantService(variantRepo, productRepo, brandRepo, cache)
	imageService := service.NewImageService(imageRepo, variantRepo, productRepo, imageStorage, cache)
	orderService := service.NewOrderService(conn, orderRepo, userRepo, hub)

	catalogScheduler := scheduler.NewCatalogScheduler(cfg.Cache.RefreshSchedule, categoryService, productService)
	if cache != nil {
		if err := catalogScheduler.Start(); err != nil {
			logger.Fatal("Failed to start catalog scheduler", err)
		}
		defer catalogScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(
		controller.NewCategoryController(categoryService),
		controller.NewBrandController(brandService),
		controller.NewProductController(productService),
		controller.NewVariantController(variantService),
		controller.NewImageController(imageService),
		controller.NewOrderController(orderService),
		controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
