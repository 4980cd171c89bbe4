// Package container provides dependency injection wiring using Uber FX.
package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	plannerapp "github.com/platewise/v1/internal/application/planner"
	"github.com/platewise/v1/internal/application/plans"
	"github.com/platewise/v1/internal/application/retrieval"
	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/infrastructure/cache"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/apiserver"
	"github.com/platewise/v1/internal/infrastructure/knowledge"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/infrastructure/provider/recipedb"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/logger"
)

// Module provides every dependency of the API process.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	KnowledgeModule,
	CacheModule,
	DatabaseModule,
	ProviderModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// KnowledgeModule provides the nutrition rule tables.
var KnowledgeModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (planner.RuleSet, error) {
		rules, err := knowledge.FromConfigPath(cfg.Knowledge.RulesPath)
		if err != nil {
			return planner.RuleSet{}, fmt.Errorf("load knowledge rules: %w", err)
		}
		log.Info("knowledge rules loaded",
			zap.String("version", rules.Version),
			zap.Int("goals", len(rules.Goals)),
			zap.Int("diseases", len(rules.Diseases)),
		)
		return rules, nil
	},
)

// CacheModule provides the candidate cache backend.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		switch cfg.Cache.Backend {
		case "redis":
			return cache.NewRedisCache(cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				Database: cfg.Redis.Database,
			}, log)
		default:
			log.Info("using in-process candidate cache",
				zap.Int("max_entries", cfg.Cache.MaxEntries))
			return cache.NewLocalCache(cfg.Cache.MaxEntries), nil
		}
	},
)

// DatabaseModule provides the saved-plan store.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormRepo.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("database connected",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Database),
		)
		return db, nil
	},
	gormRepo.NewPlanRepository,
)

// ProviderModule provides the external recipe source.
var ProviderModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *recipedb.Client {
			return recipedb.NewClient(recipedb.Config{
				BaseURL: cfg.Provider.BaseURL,
				APIKey:  cfg.Provider.APIKey,
			}, log)
		},
		fx.As(new(outbound.RecipeProvider)),
	),
)

// ServiceModule provides the application services.
var ServiceModule = fx.Provide(
	func(provider outbound.RecipeProvider, cacheRepo outbound.CacheRepository, cfg *config.Config, log *zap.Logger) *retrieval.Service {
		metrics := retrieval.NewMetrics(prometheus.DefaultRegisterer)
		return retrieval.NewService(provider, cacheRepo, metrics, retrieval.Config{
			Pages:             cfg.Retrieval.Pages,
			MaxPages:          cfg.Retrieval.MaxPages,
			PageSize:          cfg.Retrieval.PageSize,
			MinResults:        cfg.Retrieval.MinResults,
			CacheTTL:          cfg.Retrieval.CacheTTL,
			FallbackTTL:       cfg.Retrieval.FallbackTTL,
			RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		}, log)
	},
	func(rules planner.RuleSet) *plannerapp.InferenceEngine {
		return plannerapp.NewInferenceEngine(rules)
	},
	func(source *retrieval.Service, inference *plannerapp.InferenceEngine, log *zap.Logger) inbound.PlannerService {
		return plannerapp.NewService(source, inference, log)
	},
	plans.NewService,
)

// HTTPModule provides the API server.
var HTTPModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		plannerService inbound.PlannerService,
		planService *plans.Service,
		source *retrieval.Service,
		rules planner.RuleSet,
	) *apiserver.Server {
		return apiserver.NewServer(cfg, log, plannerService, planService, source, rules)
	},
)

// LifecycleModule starts and stops the process components.
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks ties the HTTP server and database to the fx
// lifecycle.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("http server shutdown failed", zap.Error(err))
			}
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("database close failed", zap.Error(err))
				}
			}
			_ = log.Sync()
			return nil
		},
	})
}
