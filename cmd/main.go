package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/alert"
	"shop-service/internal/backup"
	"shop-service/internal/handler"
	"shop-service/internal/health"
	"shop-service/internal/middleware"
	"shop-service/internal/model"
	"shop-service/internal/provision"
	"shop-service/internal/schema"
	"shop-service/internal/store"
	"shop-service/pkg/config"
	"shop-service/pkg/database"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/pkg/metrics"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found or error loading: %v\n", err)
	}

	// Load configuration
	conf, err := config.Load("shop")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// Initialize database connection
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	sqlStore := store.NewSQLStore(db)

	// Ensure the managed collections exist; one failing collection is
	// reported, not fatal
	registry := schema.NewRegistry(sqlStore)
	for _, result := range registry.InitializeDatabase(context.Background()) {
		if result.Status == schema.InitStatusError {
			log.Warn("failed to initialize collection",
				zap.String("collection", string(result.Collection)),
				zap.String("message", result.Message))
		}
	}

	// Settings and orders are not registry-managed; migrate them directly
	if err := database.MigrateModels(db, &model.Setting{}, &model.Order{}); err != nil {
		log.Fatal("Failed to migrate database models", zap.Error(err))
	}

	// Wire components
	orchestrator := provision.NewOrchestrator(sqlStore, conf.Monitor.Concurrency)
	dispatcher := alert.NewDispatcher(sqlStore)
	monitor := health.NewMonitor(sqlStore, dispatcher, conf.Monitor.CheckTimeout, conf.Monitor.Concurrency)
	backupService := backup.NewService(sqlStore)

	shopHandler := handler.NewShopHandler(orchestrator, sqlStore)
	monitorHandler := handler.NewMonitorHandler(monitor, sqlStore)
	backupHandler := handler.NewBackupHandler(backupService)
	alertHandler := handler.NewAlertHandler(dispatcher)
	adminHandler := handler.NewAdminHandler(registry)

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Initialize HTTP metrics
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	// Initialize Echo framework
	e := echo.New()

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Public routes
	e.GET("/shop/hello", handler.Hello)
	e.GET("/healthz", handler.HealthCheck)

	// Secured routes - require authentication
	shops := e.Group("/shops")
	shops.Use(middleware.JWTAuthMiddleware(jwt))

	shops.POST("/setup", shopHandler.SetupShop)
	shops.POST("/batch-update", shopHandler.BatchUpdateShops)
	shops.GET("", shopHandler.ListShops)
	shops.GET("/:tenant_id", shopHandler.GetShop)
	shops.GET("/:tenant_id/health", monitorHandler.CheckShopHealth)
	shops.POST("/health/run", monitorHandler.RunHealthPass)
	shops.POST("/:tenant_id/backup", backupHandler.BackupShop)
	shops.GET("/:tenant_id/alerts", alertHandler.ListAlerts)

	alerts := e.Group("/alerts")
	alerts.Use(middleware.JWTAuthMiddleware(jwt))
	alerts.POST("/:id/acknowledge", alertHandler.AcknowledgeAlert)

	admin := e.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(jwt))
	admin.POST("/database/init", adminHandler.InitDatabase)

	// Start server
	log.Info("Starting shop-service on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
