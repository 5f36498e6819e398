package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/handlers"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/middleware/organizer"
	"github.com/gravadigital/amigo-secreto-api/internal/middleware/requests"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
)

// HealthChecker reports the state of the storage backend
type HealthChecker interface {
	Health(ctx context.Context) error
	Info() map[string]any
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	service    *services.GroupService
	tokens     organizer.Verifier
	storage    HealthChecker
}

// New creates a new server instance
func New(cfg *config.Config, service *services.GroupService, tokens organizer.Verifier, storage HealthChecker) *Server {
	return &Server{
		config:  cfg,
		service: service,
		tokens:  tokens,
		storage: storage,
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.HTTP().Info("Starting HTTP server", "port", s.config.Server.Port, "environment", s.config.Server.Environment)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.HTTP().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()
	router.Use(requests.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.config.CORS.AllowOrigins
	corsConfig.AllowMethods = s.config.CORS.AllowMethods
	corsConfig.AllowHeaders = s.config.CORS.AllowHeaders
	corsConfig.ExposeHeaders = []string{"Content-Disposition", requests.HeaderRequestID}
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)

	groupHandler := handlers.NewGroupHandler(s.service)
	drawHandler := handlers.NewDrawHandler(s.service)

	api := router.Group("/api")
	{
		api.POST("/groups", groupHandler.CreateGroup)
		api.GET("/reveal", drawHandler.Reveal)

		groups := api.Group("/groups/:group_id", organizer.Require(s.tokens))
		{
			groups.GET("", groupHandler.GetGroup)
			groups.DELETE("", groupHandler.DeleteGroup)

			groups.POST("/participants", groupHandler.AddParticipant)
			groups.DELETE("/participants/:participant_id", groupHandler.RemoveParticipant)
			groups.PUT("/participants/:participant_id/blacklist", groupHandler.UpdateBlacklist)

			groups.GET("/validation", drawHandler.Validate)
			groups.POST("/draw", drawHandler.Draw)
			groups.GET("/cycles", drawHandler.Cycles)
			groups.GET("/links", drawHandler.Links)
			groups.GET("/report", drawHandler.Report)
			groups.POST("/report/export", drawHandler.ExportReport)
		}
	}

	return router
}

// ping is the health check
func (s *Server) ping(c *gin.Context) {
	if s.storage != nil {
		if err := s.storage.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": "Amigo Secreto API storage is unavailable",
				"status":  "unhealthy",
				"error":   err.Error(),
			})
			return
		}
	}

	body := gin.H{
		"message": "Amigo Secreto API is running",
		"status":  "healthy",
	}
	if s.storage != nil {
		body["storage"] = s.storage.Info()
	}
	c.JSON(http.StatusOK, body)
}
