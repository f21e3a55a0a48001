package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shopupgh/shopup-api/internal/cache"
	"github.com/shopupgh/shopup-api/internal/config"
	"github.com/shopupgh/shopup-api/internal/database"
	"github.com/shopupgh/shopup-api/internal/handler"
	"github.com/shopupgh/shopup-api/internal/middleware"
	"github.com/shopupgh/shopup-api/internal/repository"
	"github.com/shopupgh/shopup-api/internal/service"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// main is the application entrypoint for the ShopUp marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting shopup api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize object storage
	storageSvc, err := service.NewStorageService(&cfg.S3)
	if err != nil {
		log.Error().Err(err).Msg("storage initialization failed")
		fmt.Fprintf(os.Stderr, "storage initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize repositories
	sellerRepo := repository.NewSellerRepository(db)
	productRepo := repository.NewProductRepository(db)
	campusRepo := repository.NewCampusRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(sellerRepo)
	productSvc := service.NewProductService(productRepo, storageSvc)
	campusSvc := service.NewCampusService(campusRepo, redisClient)
	signingSvc := service.NewSigningService(storageSvc, cache.NewSignedURLCache(redisClient), cfg.Images)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:        handler.NewHealthHandler(db),
		Auth:          handler.NewAuthHandler(authSvc),
		Feed:          handler.NewFeedHandler(productSvc, campusSvc),
		SellerProduct: handler.NewSellerProductHandler(productSvc),
		Image:         handler.NewImageHandler(signingSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Feed          *handler.FeedHandler
	SellerProduct *handler.SellerProductHandler
	Image         *handler.ImageHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public routes
	router.POST("/v1/auth/register", handlers.Auth.Register)
	router.POST("/v1/auth/login", handlers.Auth.Login)
	router.GET("/v1/campuses", handlers.Feed.GetCampuses)
	router.GET("/v1/feed", handlers.Feed.GetFeed)
	router.POST("/v1/images/sign", handlers.Image.SignImageURLs)

	// Seller routes (JWT protected)
	seller := router.Group("/v1/seller")
	seller.Use(jwtMiddleware.Handle())
	{
		seller.GET("/products", handlers.SellerProduct.ListActive)
		seller.GET("/products/trash", handlers.SellerProduct.ListTrashed)
		seller.POST("/products", handlers.SellerProduct.Create)
		seller.GET("/products/:id", handlers.SellerProduct.Get)
		seller.PUT("/products/:id", handlers.SellerProduct.Update)
		seller.POST("/products/:id/publish", handlers.SellerProduct.Publish)
		seller.POST("/products/:id/unpublish", handlers.SellerProduct.Unpublish)
		seller.PUT("/products/:id/availability", handlers.SellerProduct.SetAvailability)
		seller.PUT("/products/:id/cover", handlers.SellerProduct.SetCover)
		seller.POST("/products/:id/images", handlers.SellerProduct.UploadImages)
		seller.DELETE("/products/:id", handlers.SellerProduct.SoftDelete)
		seller.POST("/products/:id/restore", handlers.SellerProduct.Restore)
		seller.DELETE("/products/:id/permanent", handlers.SellerProduct.Purge)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
