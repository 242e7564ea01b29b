// Package server wires the HTTP routes and owns the listener lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bdget/internal/api"
	"bdget/internal/config"
	"bdget/internal/monitoring"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	log  *zap.Logger
	http *http.Server
}

// New builds the router and the HTTP server around it.
func New(cfg config.ServerConfig, log *zap.Logger, handlers *api.Handlers, metrics *monitoring.Metrics, registry *prometheus.Registry) *Server {
	router := NewRouter(log, handlers, metrics, registry)

	return &Server{
		log: log,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(log *zap.Logger, handlers *api.Handlers, metrics *monitoring.Metrics, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.LoggingMiddleware(log),
		api.MetricsMiddleware(metrics),
	)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/test", handlers.Test)
		apiGroup.GET("/hello", handlers.Hello)
		apiGroup.POST("/echo", handlers.Echo)
		apiGroup.GET("/info", handlers.Info)

		apiGroup.GET("/resilient", handlers.Resilient)
		apiGroup.GET("/retry", handlers.Retry)
		apiGroup.GET("/combined", handlers.Combined)

		apiGroup.GET("/circuit-breaker", handlers.BreakerStatus)
		apiGroup.POST("/circuit-breaker/reset", handlers.BreakerReset)
	}

	router.GET("/health", handlers.Health)
	router.GET("/health/live", handlers.Live)
	router.GET("/health/ready", handlers.Ready)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return router
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
