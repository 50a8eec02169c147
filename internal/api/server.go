// Package api exposes the diagnostic reasoning engine over HTTP: case
// lifecycle endpoints, knowledge base introspection, and a WebSocket stream of
// live belief updates.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/middleware"
	"github.com/iei-diagnostic-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg      *domain.Config
	sessions *service.SessionService
	hub      *Hub
	logger   *logrus.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, sessions *service.SessionService, hub *Hub, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(corsMiddleware())
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(limiter.Handler())
	}

	server := &Server{
		cfg:      cfg,
		sessions: sessions,
		hub:      hub,
		logger:   logger,
		router:   router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cfg.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.hub.Shutdown()
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		cases := v1.Group("/cases")
		{
			cases.POST("", s.handleStartCase)
			cases.GET("", s.handleListCases)
			cases.GET("/:id", s.handleGetCase)
			cases.DELETE("/:id", s.handleDeleteCase)
			cases.POST("/:id/answers", s.handleSubmitAnswer)
			cases.PUT("/:id/answers/:question", s.handleReviseAnswer)
			cases.GET("/:id/next", s.handleNextQuestion)
			cases.GET("/:id/ranking", s.handleRanking)
			cases.GET("/:id/trace", s.handleTrace)
			cases.GET("/:id/stream", s.handleStream)
		}

		v1.GET("/export", s.handleExport)

		kb := v1.Group("/knowledge")
		{
			kb.GET("/categories", s.handleCategories)
			kb.GET("/questions", s.handleQuestions)
			kb.GET("/questions/:id", s.handleGetQuestion)
			kb.GET("/patterns", s.handlePatterns)
		}
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
