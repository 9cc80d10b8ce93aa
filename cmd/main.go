package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"stockflow/internal/caching"
	"stockflow/internal/handlers"
	"stockflow/internal/jobs"
	"stockflow/internal/jobs/background"
	"stockflow/internal/rebalance"
	"stockflow/internal/repositories"
	"stockflow/internal/services"
	"stockflow/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	objectStore, err := services.NewObjectStoreService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	locationRepo := repositories.NewLocationRepository(pool)
	positionRepo := repositories.NewPositionRepository(pool)
	demandRepo := repositories.NewDemandRepository(pool)
	constraintRepo := repositories.NewConstraintRepository(pool)
	runRepo := repositories.NewRunRepository(pool)
	suggestionRepo := repositories.NewSuggestionRepository(pool)
	recommendationRepo := repositories.NewRecommendationRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	engine := rebalance.NewEngine()
	rebalanceSvc := services.NewRebalanceService(
		engine,
		runRepo, locationRepo, positionRepo,
		demandRepo, constraintRepo,
		suggestionRepo, recommendationRepo, cacheSvc,
	)
	reportSvc := services.NewReportService(runRepo, suggestionRepo, recommendationRepo, objectStore)
	constraintSvc := services.NewConstraintService(constraintRepo, cacheSvc)
	alertSvc := jobs.NewCoverageAlertService(locationRepo, positionRepo, demandRepo)

	// Create handlers
	rebalanceHandlers := handlers.NewRebalanceHandlers(rebalanceSvc, reportSvc)
	constraintHandlers := handlers.NewConstraintHandlers(constraintSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background job scheduler
	scheduler := background.NewJobScheduler(rebalanceSvc, alertSvc, tenantRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	// API routes
	v1 := e.Group("/v1")

	// Run lifecycle
	v1.POST("/rebalance/runs", rebalanceHandlers.TriggerRun)
	v1.GET("/rebalance/runs", rebalanceHandlers.ListRuns)
	v1.GET("/rebalance/runs/:id", rebalanceHandlers.GetRun)
	v1.GET("/rebalance/runs/:id/suggestions", rebalanceHandlers.ListSuggestions)
	v1.GET("/rebalance/runs/:id/recommendations", rebalanceHandlers.ListRecommendations)
	v1.GET("/rebalance/runs/:id/report", rebalanceHandlers.ExportRunReport)

	// Constraint admin
	v1.GET("/constraints", constraintHandlers.ListConstraints)
	v1.PUT("/constraints", constraintHandlers.UpsertConstraint)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Stockflow server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
