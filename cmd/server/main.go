package main

import (
	"os"

	"profileauth/internal/app"
	"profileauth/internal/config"
	"profileauth/internal/logger"
)

// @title Profile Auth API
// @version 1.0
// @description User registration, JWT login and profile management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), os.Stderr)

	application, err := app.New(cfg)
	if err != nil {
		logger.Errorf("startup: %v", err)
		os.Exit(1)
	}

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	logger.Infof("Swagger documentation available at: http://%s/swagger/index.html", swaggerHost)

	application.Run()
	application.Wait()

	if err := application.Shutdown(); err != nil {
		os.Exit(1)
	}
}
