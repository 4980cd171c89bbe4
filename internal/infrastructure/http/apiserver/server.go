// Package apiserver provides the HTTP API for recommendations, weekly plans
// and the nutrition knowledge tables.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/plans"
	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/inbound"
)

// RecipeFetcher looks up single recipes from the provider.
type RecipeFetcher interface {
	FetchRecipe(ctx context.Context, id string) (*planner.Candidate, error)
	FetchRecipeOfDay(ctx context.Context) (*planner.Candidate, error)
}

// Server is the HTTP server hosting the planner API.
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	server  *http.Server
	planner inbound.PlannerService
	plans   *plans.Service
	recipes RecipeFetcher
	rules   planner.RuleSet
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	plannerService inbound.PlannerService,
	planService *plans.Service,
	recipes RecipeFetcher,
	rules planner.RuleSet,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		logger:  logger.Named("http"),
		planner: plannerService,
		plans:   planService,
		recipes: recipes,
		rules:   rules,
	}
	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger), gin.Recovery())

	router.GET("/health", s.handleHealth)
	if s.config.Server.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/recommendations", s.handleRecommend)
		// Registered beside /recipes because a static segment cannot share
		// a level with the :id parameter in gin's route tree.
		api.GET("/recipe-of-the-day", s.handleRecipeOfDay)
		api.GET("/recipes/:id", s.handleRecipe)
		api.GET("/knowledge", s.handleKnowledge)

		api.POST("/plans", s.handleCreatePlan)
		api.GET("/plans/:id", s.handleGetPlan)
		api.GET("/plans", s.handleListPlans)
		api.DELETE("/plans/:id", s.handleDeletePlan)
	}

	return router
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger logs one line per request with latency and status.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
