package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registration-service/cmd/api/di"
	"user-registration-service/internal/adapter/gin/router"
	"user-registration-service/internal/config"
)

// Server is the HTTP front of the service.
type Server struct {
	http *http.Server
	log  *zap.Logger
}

// New builds the gin engine from the container and binds it to HTTP_PORT.
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := router.SetupRouter(router.Options{
		UserHandler: c.GinHandler,
		Checks:      c.HealthChecks(),
		CORSOrigin:  cfg.App.CORSOrigin,
		SwaggerPath: cfg.App.SwaggerPath,
		Logger:      l,
	})
	// parts beyond this spill to temporary files
	engine.MaxMultipartMemory = cfg.Storage.MaxMemoryMB << 20

	return &Server{
		log: l,
		// Bodies carry uploads of any size, so only headers and idle
		// keep-alives are bounded.
		http: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           engine,
			ReadHeaderTimeout: 2 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http server: %w", err)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
