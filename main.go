package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"penguinexplorer/internal"
	"penguinexplorer/internal/config"
	"penguinexplorer/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	logger.Info("Starting Penguin Explorer on port %s", appConfig.Server.Port)
	if err := appContainer.Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	logger.Info("Penguin Explorer stopped")
}
