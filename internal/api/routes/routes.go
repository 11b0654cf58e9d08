package routes

import (
	"halisaha-backend/internal/api/handlers"
	"halisaha-backend/internal/api/middleware"
	"halisaha-backend/internal/auth"
	"halisaha-backend/internal/config"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/repository"
	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Dependencies holds the long-lived components the router is built from
type Dependencies struct {
	DB          *gorm.DB
	Config      *config.Config
	AuthService *auth.AuthService
	Hub         *notify.Hub
	Templates   *notify.Templates
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())

	// Initialize validator
	validator := validator.New()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	joinRequestRepo := repository.NewJoinRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, deps.Hub, deps.Templates)
	userService := service.NewUserService(userRepo, validator)
	teamService := service.NewTeamService(transactor, teamRepo, memberRepo, joinRequestRepo, userRepo, validator)
	joinRequestService := service.NewJoinRequestService(transactor, teamRepo, memberRepo, joinRequestRepo, userRepo, notificationService, validator)

	authMiddleware := auth.NewAuthMiddleware(deps.AuthService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, Version)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	joinRequestHandler := handlers.NewJoinRequestHandler(joinRequestService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, deps.Hub, cfg.AllowedOrigins)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		users := v1.Group("/users")
		{
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/teams", teamHandler.GetUserTeams)
		}

		teams := v1.Group("/teams")
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.POST("/:id/join-requests", joinRequestHandler.SubmitJoinRequest)
			teams.GET("/:id/join-requests", joinRequestHandler.ListJoinRequests)
		}

		joinRequests := v1.Group("/join-requests")
		{
			joinRequests.POST("/:id/approve", joinRequestHandler.ApproveJoinRequest)
			joinRequests.POST("/:id/reject", joinRequestHandler.RejectJoinRequest)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/ws", notificationHandler.Stream)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(middleware.RequestIDKey),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db, Version)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
