package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/gin/middleware"
	"user-registration-service/pkg/logger"
)

const (
	serviceName     = "user-registration-service"
	swaggerSpecFile = "/users.swagger.json"
	healthTimeout   = 2 * time.Second
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// HealthFunc adapts a plain function to HealthChecker.
type HealthFunc func(ctx context.Context) error

// Healthy calls f.
func (f HealthFunc) Healthy(ctx context.Context) error { return f(ctx) }

// Options carries everything the router needs. Checks are probed by
// /health, keyed by dependency name.
type Options struct {
	UserHandler *handler.UserHandler
	Checks      map[string]HealthChecker
	CORSOrigin  string
	SwaggerPath string
	Logger      *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigin))

	router.GET("/health", health(opts.Checks))

	if opts.SwaggerPath != "" {
		router.GET("/swagger/*any", swagger(opts.SwaggerPath))
	}

	users := router.Group("/users")
	{
		users.POST("", opts.UserHandler.CreateUser)
		users.GET("", opts.UserHandler.ListUsers)
		users.PUT("/:id", opts.UserHandler.UpdateUser)
		users.DELETE("/:id", opts.UserHandler.DeleteUser)
	}

	return router
}

func health(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.Healthy(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":       state,
			"service":      serviceName,
			"dependencies": deps,
		})
	}
}

// swagger serves the API document and the Swagger UI that renders it
func swagger(specPath string) gin.HandlerFunc {
	ui := httpSwagger.Handler(httpSwagger.URL("/swagger" + swaggerSpecFile))
	return func(c *gin.Context) {
		if c.Param("any") == swaggerSpecFile {
			c.File(specPath)
			return
		}
		ui(c.Writer, c.Request)
	}
}
