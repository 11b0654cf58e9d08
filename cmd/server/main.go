package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"halisaha-backend/internal/api/routes"
	"halisaha-backend/internal/auth"
	"halisaha-backend/internal/config"
	"halisaha-backend/internal/database"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "halisaha-backend/docs" // This is needed for swag
)

//	@title			Halı Saha Backend API
//	@version		1.0
//	@description	Backend API for amateur football teams: player profiles, teams, join requests and notifications.

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:7008
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	// Set up logging
	setupLogging(cfg.LogLevel)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		telemetry.StartDBStatsCollector(sqlDB, 15*time.Second)
	}

	authService, err := auth.NewAuthService(auth.NewAuthConfig(cfg))
	if err != nil {
		logrus.Fatal("Failed to initialize auth service: ", err)
	}

	templates, err := notify.LoadTemplates(cfg.NotificationTemplatesPath)
	if err != nil {
		logrus.Fatal("Failed to load notification templates: ", err)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := routes.SetupRoutes(routes.Dependencies{
		DB:          db,
		Config:      cfg,
		AuthService: authService,
		Hub:         notify.NewHub(cfg.WSSendBuffer, cfg.WSPingInterval),
		Templates:   templates,
	})

	port := cfg.Port
	if port == "" {
		port = "7008"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shut down")
	}
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
