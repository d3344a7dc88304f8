package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/unihub/internal/app/controllers"
	appMigrations "github.com/yigit/unihub/internal/app/migrations"
	appRepos "github.com/yigit/unihub/internal/app/repositories"
	appRoutes "github.com/yigit/unihub/internal/app/routes"
	appServices "github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/config"
	"github.com/yigit/unihub/internal/db"
	appMiddleware "github.com/yigit/unihub/internal/middleware"
	"github.com/yigit/unihub/internal/pkg/blobstore"
	"github.com/yigit/unihub/internal/pkg/logger"
	"github.com/yigit/unihub/internal/pkg/websocket"
	"github.com/yigit/unihub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store       *blobstore.NotifyingStore
	Hub         *websocket.Hub
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Controllers *appControllers.Controllers
	WSHandler   *websocket.Handler
	Logger      zerolog.Logger
}

// Close releases the underlying store
func (d *Dependencies) Close() error {
	return d.Store.Close()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) != "json",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore opens the blob store selected by cfg.Storage.Driver
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (blobstore.Store, error) {
	driver := cfg.Storage.Driver
	lgr.Info().Str("driver", driver).Str("path", cfg.Storage.Path).Msg("Opening blob store...")

	switch driver {
	case config.DriverMemory:
		return blobstore.NewMemoryStore(), nil
	case config.DriverLocal:
		return blobstore.NewLocalStore(cfg.Storage.Path)
	case config.DriverBolt:
		return blobstore.OpenBoltStore(cfg.Storage.Path)
	case config.DriverSQLite:
		return blobstore.OpenSQLiteStore(cfg.Storage.Path)
	case config.DriverMinIO:
		return blobstore.NewMinIOStore(ctx, blobstore.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			Region:    cfg.MinIO.Region,
		})
	case config.DriverPostgres:
		return openPostgresStore(ctx, cfg, lgr)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// pgStore closes its pool together with the store
type pgStore struct {
	*blobstore.PostgresStore
	database *db.PostgresDB
}

func (p *pgStore) Close() error {
	p.database.Close()
	return nil
}

func openPostgresStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (blobstore.Store, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database, lgr).Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &pgStore{PostgresStore: blobstore.NewPostgresStore(database.Pool), database: database}, nil
}

// BuildDependencies wires the change feed, repositories, services and
// controllers over store, then seeds and finishes interrupted approvals.
func BuildDependencies(ctx context.Context, cfg *config.Config, store blobstore.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "hub").Logger())
	deps.Store = blobstore.NewNotifyingStore(store, deps.Hub)

	deps.Repos = appRepos.NewRepositories(deps.Store, nil, lgr.With().Str("component", "repository").Logger())
	deps.Services = appServices.NewServices(deps.Repos, lgr)
	deps.Controllers = appControllers.NewControllers(deps.Services)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr.With().Str("component", "websocket").Logger())

	if cfg.Seed.OnStart {
		if _, err := seed.CreateDefaultData(ctx, deps.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	if n := deps.Services.ClubService.RecoverPendingApprovals(ctx); n > 0 {
		lgr.Warn().Int("clubs", n).Msg("Recovered interrupted club approvals")
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))

	appRoutes.SetupRouter(router, deps.Controllers, deps.WSHandler)
	return router
}
