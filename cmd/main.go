package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
)

// @title Catalog Service API
// @version 1.0.0
// @description Storefront catalog, reviews, partner directory and back-office API

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Redis backs the product list cache; the service runs without it.
	var redisClient *redis.Client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
	} else {
		redisClient = redis.NewClient(redisOpts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
			redisClient = nil
		} else {
			log.Println("✓ Redis connected successfully")
		}
		cancel()
	}

	// Repositories
	productsRepo := repository.NewProductsRepository(db, redisClient)
	reviewsRepo := repository.NewReviewsRepository(db)
	partnersRepo := repository.NewPartnersRepository(db)
	profilesRepo := repository.NewProfilesRepository(db)
	marketingRepo := repository.NewMarketingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Audit events only if NATS_URL is set
	var eventsPublisher *events.Publisher
	if os.Getenv("NATS_URL") != "" {
		eventsPublisher, err = events.NewPublisher(logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Core import pipeline
	productImporter := importer.New(productsRepo, logger)

	// Handlers
	productsHandler := handlers.NewProductsHandler(productsRepo, cfg.DefaultPageSize, cfg.MaxPageSize, logger)
	importHandler := handlers.NewImportHandler(productImporter, eventsPublisher, logger)
	reviewsHandler := handlers.NewReviewsHandler(reviewsRepo, productsRepo, eventsPublisher, cfg.PublicReviewsLimit, logger)
	partnersHandler := handlers.NewPartnersHandler(partnersRepo, logger)
	marketingHandler := handlers.NewMarketingHandler(marketingRepo, logger)
	authHandler := handlers.NewAuthHandler(profilesRepo, cfg.JWTSecret, logger)
	adminHandler := handlers.NewAdminHandler(productsRepo, reviewsRepo, marketingRepo, settingsRepo, profilesRepo, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	api := router.Group("/api/v1")

	// Public storefront endpoints
	{
		api.GET("/products", productsHandler.GetProducts)
		api.GET("/products/:id", productsHandler.GetProduct)
		api.POST("/products/increment-clicks", productsHandler.IncrementClicks)

		api.GET("/partners", partnersHandler.GetPartners)

		api.GET("/reviews", reviewsHandler.GetPublicReviews)
		api.POST("/reviews/submit", reviewsHandler.SubmitReview)

		api.POST("/email-capture", marketingHandler.CaptureEmail)
		api.POST("/track-interaction", marketingHandler.TrackInteraction)

		api.POST("/auth/login", authHandler.Login)
	}

	// Authenticated endpoints
	authed := api.Group("")
	authed.Use(middleware.AuthRequired([]byte(cfg.JWTSecret)))
	authed.GET("/auth/me", authHandler.Me)

	// Administrative back office: authentication plus admin role,
	// fail closed before any handler runs.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired([]byte(cfg.JWTSecret)))
	admin.Use(middleware.RequireAdmin(profilesRepo))
	{
		admin.GET("/products", productsHandler.ListAdminProducts)
		admin.POST("/products", productsHandler.CreateProduct)
		admin.PUT("/products/:id", productsHandler.UpdateProduct)
		admin.DELETE("/products/:id", productsHandler.DeleteProduct)

		admin.GET("/products/import/template", importHandler.GetImportTemplate)
		admin.POST("/products/import", importHandler.ImportProducts)

		admin.GET("/reviews", reviewsHandler.ListModeration)
		admin.PATCH("/reviews/:id/status", reviewsHandler.UpdateStatus)
		admin.PATCH("/reviews/:id/visibility", reviewsHandler.UpdateVisibility)

		admin.POST("/partners", partnersHandler.CreatePartner)
		admin.PUT("/partners/:id", partnersHandler.UpdatePartner)
		admin.DELETE("/partners/:id", partnersHandler.DeletePartner)

		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.PutSettings)
		admin.GET("/metrics", adminHandler.GetMetrics)
		admin.GET("/charts", adminHandler.GetCharts)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down catalog-service...")
	log.Println("Catalog service stopped")
}
