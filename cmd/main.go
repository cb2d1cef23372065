package main

import (
	"log"
	"os"

	"shop_service/config"
	"shop_service/internal/delivery"
	"shop_service/internal/repository"
	"shop_service/internal/usecase"
	"shop_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting Shop Service...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	// Repository Layer
	productRepo := repository.NewPostgresProductRepository(database, logger)
	stockLedger := repository.NewPostgresStockLedger(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	logger.Info("Repositories initialized.")

	// Usecase Layer
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, stockLedger, logger)
	logger.Info("Use cases initialized.")

	productHandler := delivery.NewProductHandler(catalogUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(delivery.RequestLogger(logger))

	productHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	logger.Info("API Routes registered.")

	logger.Infof("Starting server on port %s", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
