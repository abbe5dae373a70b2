package main

import (
	"os"

	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/server"
)

// @title QPShare API
// @version 1.0
// @description Crowd-sourced university exam paper catalog: public search over approved papers, authenticated uploads, and an admin moderation console.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Uploader access token, "Bearer {token}"

// @securityDefinitions.apikey AdminAuth
// @in header
// @name X-Admin-Auth
// @description Signed admin session token from POST /api/admin/auth
func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
