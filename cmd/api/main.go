package main

import (
	"os"

	"github.com/ccnu/student-achievements/internal/pkg/logger"
	"github.com/ccnu/student-achievements/internal/server"
)

// @title Student Achievements API
// @version 1.0
// @description Record-management backend for student achievements: submission, review, export and role management.

// @host localhost:8000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token issued by /student/login

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until SIGINT/SIGTERM
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
