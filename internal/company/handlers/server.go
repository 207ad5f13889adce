package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the gin engine and the HTTP listener with an explicit
// start/stop lifecycle.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	endpoint   string
}

// NewServer builds the router with recovery, request logging and CORS
// middleware. An empty origin list allows all origins.
func NewServer(port int, corsOrigins []string, logger *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	engine.Use(cors.New(corsConfig))

	endpoint := fmt.Sprintf(":%d", port)
	return &Server{
		engine:     engine,
		httpServer: &http.Server{Addr: endpoint, Handler: engine},
		logger:     logger,
		endpoint:   endpoint,
	}
}

// RegisterRoutes binds the company endpoints to the router. Unknown paths
// answer with the same envelope shape as everything else.
func (s *Server) RegisterRoutes(h *CompanyHandler) {
	s.engine.GET("/health", h.Health)

	companies := s.engine.Group("/companies")
	companies.POST("", h.Create)
	companies.GET("", h.List)
	companies.GET("/search", h.Search)
	companies.GET("/search/suggestions", h.Suggest)
	companies.GET("/:id", h.Get)
	companies.PATCH("/:id", h.Update)
	companies.DELETE("/:id", h.Delete)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NewEnvelope(http.StatusNotFound, "Route not found").
			WithPath(c.Request.URL.Path))
	})
}

// Start runs the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("endpoint", s.endpoint))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.logger.Info("HTTP server stopped")
}

// Handler exposes the router, primarily for tests driving the server with
// httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
