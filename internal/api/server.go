package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
	"github.com/martijn/clientdb/internal/api/dto"
	"github.com/martijn/clientdb/internal/api/handler"
	"github.com/martijn/clientdb/internal/api/middleware"
	"github.com/martijn/clientdb/internal/core/repository"
	"github.com/martijn/clientdb/pkg/config"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	store Pinger,
	clientRepo repository.ClientRepository,
) *Server {
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		router: NewRouter(cfg.CORSOrigins, logger, store, clientRepo),
		config: cfg,
		logger: logger,
	}
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(
	corsOrigins []string,
	logger *slog.Logger,
	store Pinger,
	clientRepo repository.ClientRepository,
) *gin.Engine {
	set := metrics.NewSet()

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MeterRequests(set))
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(corsOrigins))

	clientHandler := handler.NewClientHandler(clientRepo, logger)

	clients := router.Group("/clients")
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.FindClients)
		clients.GET("/:id", clientHandler.GetClient)
		clients.PATCH("/:id", clientHandler.UpdateClient)
		clients.DELETE("/:id", clientHandler.DeleteClient)
		clients.POST("/:id/phones", clientHandler.AddPhone)
		clients.DELETE("/:id/phones/:number", clientHandler.DeletePhone)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error:   "Service Unavailable",
				Message: err.Error(),
				Code:    http.StatusServiceUnavailable,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		set.WritePrometheus(c.Writer)
		metrics.WriteProcessMetrics(c.Writer)
	})

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
