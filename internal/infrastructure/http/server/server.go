// Package server provides the HTTP server wiring for the engine's REST API
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/handlers"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	server  *http.Server
	metrics *monitoring.Metrics
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	dietaryHandlers *handlers.DietaryHandlers,
	metrics *monitoring.Metrics,
) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("http-server"),
		metrics: metrics,
	}

	s.router = s.setupRouter(dietaryHandlers)
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupRouter(h *handlers.DietaryHandlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metrics.HTTPMiddleware)
	r.Use(s.requestLogger)

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Put("/{userID}", h.SaveProfile)
			r.Get("/{userID}", h.GetProfile)
		})

		r.Post("/recipes", h.ImportRecipe)
		r.Post("/recipes/validate-import", h.ValidateImport)
		r.Post("/meal-plans", h.SaveMealPlan)
		r.Post("/shopping-lists", h.SaveShoppingList)

		r.Route("/compatibility", func(r chi.Router) {
			r.Post("/evaluate", h.EvaluateRecipe)
			r.Get("/{profileID}/recipes/{recipeID}", h.EvaluateStoredRecipe)
			r.Post("/filter", h.FilterRecipes)
			r.Post("/meal-plan", h.FilterMealPlan)
			r.Post("/shopping-list", h.HighlightShoppingList)
		})

		r.Get("/substitutions/{profileID}/recipes/{recipeID}", h.SuggestSubstitutions)
	})

	return r
}

// requestLogger logs each request with its duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests
func (s *Server) Router() http.Handler {
	return s.router
}
