package main

import (
	"os"

	"github.com/yigit/activityhub/internal/pkg/logger"
	"github.com/yigit/activityhub/internal/server"
)

// @title ActivityHub API
// @version 1.0
// @description API for discovering, creating and joining activities

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

// @securityDefinitions.apikey GatewayKey
// @in header
// @name X-Gateway-Key
// @description Shared key of the identity gateway

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
