package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"grocery-delivery-api/config"
	"grocery-delivery-api/handlers"
	"grocery-delivery-api/logger"
	"grocery-delivery-api/realtime"
	"grocery-delivery-api/routes"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()
	handlers.Cfg = cfg

	// Initialize database
	config.InitDB(cfg.DatabasePath)

	// Redis backs the order event feed and verification codes; the API
	// still runs without it.
	if cfg.RedisURL != "" {
		rt, err := realtime.Initialize(cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, order events disabled")
		} else {
			handlers.RT = rt
			defer rt.Close()
		}
	} else {
		logrus.Info("no REDIS_URL configured, accounts verify immediately")
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Grocery Delivery Marketplace API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Grocery Delivery Marketplace API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "agent", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	logrus.Infof("server running on http://localhost:%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
