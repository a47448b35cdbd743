package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lacasadelchilaquil/chilaquiles-app/config"
	"github.com/lacasadelchilaquil/chilaquiles-app/database"
	"github.com/lacasadelchilaquil/chilaquiles-app/events"
	"github.com/lacasadelchilaquil/chilaquiles-app/middlewares"
	"github.com/lacasadelchilaquil/chilaquiles-app/router"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if os.Getenv("RESET_ORDERS") == "true" {
		if err := database.ResetOrders(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to reset orders: %v", err)
		}
	}

	if os.Getenv("SEED_ON_START") == "true" {
		if err := database.Seed(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
		}
	}

	// Push fresh stats to connected dashboards
	monitor := events.NewStatsMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	// Drop expired blacklist entries in the background
	go utils.CleanupBlacklist(time.Hour)

	r := router.SetupRouter(db)

	rateLimiter := middlewares.NewRateLimiter(50, 10)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
