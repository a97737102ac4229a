package main

import (
	"os"

	"github.com/svce/alumniconnect/internal/pkg/logger"
	"github.com/svce/alumniconnect/internal/server"
)

// @title SVCE Alumni Connect API
// @version 1.0
// @description Alumni and student portal: job board, mentoring meetings and profile approvals
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("Alumni Connect API stopped with an error")
		os.Exit(1)
	}
	logger.Info().Msg("Alumni Connect API stopped")
}

func run() error {
	srv, err := server.NewServer()
	if err != nil {
		return err
	}
	return srv.Run()
}
