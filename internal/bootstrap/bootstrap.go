package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursegen/internal/app/controllers"
	appMigrations "github.com/yigit/coursegen/internal/app/migrations"
	"github.com/yigit/coursegen/internal/app/models"
	appRepos "github.com/yigit/coursegen/internal/app/repositories"
	appRoutes "github.com/yigit/coursegen/internal/app/routes"
	appServices "github.com/yigit/coursegen/internal/app/services"
	"github.com/yigit/coursegen/internal/catalog"
	"github.com/yigit/coursegen/internal/config"
	"github.com/yigit/coursegen/internal/db"
	appMiddleware "github.com/yigit/coursegen/internal/middleware"
	"github.com/yigit/coursegen/internal/pkg/helpers"
	"github.com/yigit/coursegen/internal/pkg/logger"
	"github.com/yigit/coursegen/internal/pkg/metrics"
	"github.com/yigit/coursegen/internal/seed"
)

// initialLoadTimeout bounds the first catalog load during startup
const initialLoadTimeout = 30 * time.Second

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories // nil when the catalog comes from a file
	Catalog            *catalog.Store
	ScheduleService    *appServices.ScheduleService
	ScheduleController *appControllers.ScheduleController
	Limiter            *appMiddleware.ClientLimiter
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "console",
	})

	lgr := logger.Get()
	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Strs("envOverrides", cfg.EnvOverrides).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and imports the
// seed catalog into an empty term. It returns nil when the catalog is file backed.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if !cfg.UsesDatabase() {
		lgr.Info().Str("file", cfg.Catalog.File).Msg("Catalog source is a file, skipping database setup")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files(), logger.Component("migrations"))
	if err := migrator.Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repo := appRepos.NewCatalogRepository(database.Pool, logger.Component("catalog"))
	if _, err := seed.ImportCatalogIfEmpty(ctx, database, repo, models.Term(cfg.Catalog.Term), cfg.Catalog.SeedFile, lgr); err != nil {
		// An empty catalog still serves health checks, so startup continues
		lgr.Error().Err(err).Msg("Failed to import seed catalog, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes the catalog store, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	term := models.Term(cfg.Catalog.Term)

	var loader catalog.Loader
	var searchLog appServices.SearchLogRecorder
	if database != nil {
		deps.Repos = appRepos.NewRepositories(database.Pool, lgr)
		loader = deps.Repos.CatalogRepository
		searchLog = deps.Repos.SearchLogRepository
	} else {
		loader = &catalog.FileLoader{Path: cfg.Catalog.File, Logger: logger.Component("catalog")}
	}

	deps.Catalog = catalog.NewStore(loader, term, logger.Component("catalog"))
	deps.Catalog.OnRefresh = func(snap *catalog.Snapshot, err error) {
		if snap == nil {
			metrics.ObserveCatalogRefresh(0, 0, err)
			return
		}
		metrics.ObserveCatalogRefresh(snap.CourseCount(), snap.SectionCount(), err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	defer cancel()
	if _, err := deps.Catalog.Refresh(loadCtx); err != nil {
		lgr.Error().Err(err).Msg("Initial catalog load failed")
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	deps.ScheduleService = appServices.NewScheduleService(deps.Catalog, searchLog, appServices.ScheduleServiceOptions{
		Timeout: helpers.ParseDuration(cfg.Scheduler.Timeout, 15*time.Second),
		Seed:    cfg.Scheduler.Seed,
	}, logger.Component("scheduler"))

	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService)
	deps.Limiter = appMiddleware.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupRouter(router, deps.ScheduleController, deps.Limiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
