package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jsonprof/app"
	"jsonprof/internal"
	"jsonprof/internal/config"
)

// ShutdownTimeout bounds graceful shutdown once Start's context ends
const ShutdownTimeout = 5 * time.Second

// Server exposes the analysis service over HTTP
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	config  config.ServerConfig
	logger  *internal.Logger
}

// NewServer creates a server with routes registered
func NewServer(service *app.AnalysisService, cfg config.ServerConfig) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		config:  cfg,
		logger:  internal.DefaultLogger.With("component", "api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery(), s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
}

// requestLogger replaces gin's default logger so requests go through zap
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured port until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
