package main

import (
	"log"
	"os"

	"github.com/ethanbaker/tubescript/internal/api"
	"github.com/ethanbaker/tubescript/pkg/logger"
	"github.com/ethanbaker/tubescript/pkg/utils"
	"go.uber.org/zap"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	l, err := logger.New(logger.ConfigFromEnv(cfg))
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to create logger: %v", err)
	}
	defer l.Sync()

	// Start
	if err := api.Start(cfg, l); err != nil {
		l.Fatal("[API-MAIN]: server stopped", zap.Error(err))
	}
}
