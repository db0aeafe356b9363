package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agenthands/regcompare/internal/config"
	"github.com/agenthands/regcompare/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.LoadOrDefault(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	logger, closeLog, err := cfg.Logger()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	gin.SetMode(cfg.Server.Mode)
	srv, cleanup, err := server.NewFromConfig(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer cleanup()

	r := srv.SetupRouter()

	logger.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
