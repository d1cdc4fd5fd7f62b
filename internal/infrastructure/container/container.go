// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	appdietary "github.com/platewise/v1/internal/application/dietary"
	"github.com/platewise/v1/internal/infrastructure/cache"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/handlers"
	"github.com/platewise/v1/internal/infrastructure/http/server"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	RepositoryModule,
	CacheModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			AppName:     cfg.App.Name,
		})
	},
)

// MonitoringModule provides Prometheus metrics
var MonitoringModule = fx.Provide(
	monitoring.NewMetrics,
	func(m *monitoring.Metrics) outbound.MetricsRecorder { return m },
)

// RepositoryModule provides the persistence adapters
var RepositoryModule = fx.Provide(
	memory.NewProfileRepository,
	memory.NewRecipeRepository,
	memory.NewMealPlanRepository,
	memory.NewShoppingListRepository,
)

// CacheModule provides the evaluation cache. Redis when configured,
// otherwise the in-process cache.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.Redis.Enabled() {
			return cache.NewRedisCache(cfg.Redis, log)
		}
		log.Info("Redis not configured, using in-process cache")
		return memory.NewCacheRepository(), nil
	},
)

// ServiceModule provides the application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config) appdietary.Options {
		return appdietary.Options{
			MinScore:           cfg.Engine.MinScore,
			MealPlanThreshold:  cfg.Engine.MealPlanThreshold,
			MaxAlternatives:    cfg.Engine.MaxAlternatives,
			MaxItemSuggestions: cfg.Engine.MaxItemSuggestions,
			CacheTTL:           cfg.Engine.CacheTTL,
		}
	},
	appdietary.NewDietaryService,
)

// HTTPModule provides the HTTP surface
var HTTPModule = fx.Provide(
	handlers.NewDietaryHandlers,
	server.NewServer,
)

// LifecycleModule binds the server to the fx lifecycle
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, cfg *config.Config, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Fatal("HTTP server failed", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			},
		})
	},
)
