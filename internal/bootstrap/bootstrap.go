// Package bootstrap wires configuration, storage, services and routes.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/qpshare/qpshare/internal/app/controllers"
	appMigrations "github.com/qpshare/qpshare/internal/app/migrations"
	appRepos "github.com/qpshare/qpshare/internal/app/repositories"
	appRoutes "github.com/qpshare/qpshare/internal/app/routes"
	appServices "github.com/qpshare/qpshare/internal/app/services"
	"github.com/qpshare/qpshare/internal/config"
	"github.com/qpshare/qpshare/internal/db"
	appMiddleware "github.com/qpshare/qpshare/internal/middleware"
	pkgAuth "github.com/qpshare/qpshare/internal/pkg/auth"
	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/pkg/objectstorage"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos           *appRepos.Repositories
	Services        *appServices.Services
	AuthController  *appControllers.AuthController
	PaperController *appControllers.PaperController
	AdminController *appControllers.AdminController
	AuthMiddleware  *appMiddleware.AuthMiddleware
	JWTService      *pkgAuth.JWTService
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory("migrations"); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	accessExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	adminExp, err := time.ParseDuration(cfg.JWT.AdminTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid admin token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessExp,
		AdminTokenExp:  adminExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	storage, err := objectstorage.NewS3Storage(context.Background(), objectstorage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage: %w", err)
	}

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, storage, cfg)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.PaperController = appControllers.NewPaperController(deps.Services.SearchService, deps.Services.UploadService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.Services.AuthService, deps.Services.ModerationService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.Metrics())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.PaperController,
		deps.AdminController,
		deps.AuthMiddleware,
	)
	appRoutes.SetupSwagger(router)

	lgr.Info().Msg("Router configured")
	return router
}
