package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ccnu/student-achievements/internal/app/controllers"
	appMigrations "github.com/ccnu/student-achievements/internal/app/migrations"
	appRepos "github.com/ccnu/student-achievements/internal/app/repositories"
	appRoutes "github.com/ccnu/student-achievements/internal/app/routes"
	appServices "github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/config"
	"github.com/ccnu/student-achievements/internal/db"
	appMiddleware "github.com/ccnu/student-achievements/internal/middleware"
	pkgAuth "github.com/ccnu/student-achievements/internal/pkg/auth"
	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
	"github.com/ccnu/student-achievements/internal/pkg/validation"
	"github.com/ccnu/student-achievements/internal/seed"
)

// ConfigPathEnv overrides the default configs/config.yaml location
const ConfigPathEnv = "CONFIG_PATH"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	Services              *appServices.Services
	JWTService            *pkgAuth.JWTService
	FileStorage           *filestorage.LocalStorage
	AuthMiddleware        *appMiddleware.AuthMiddleware
	AuthController        *appControllers.AuthController
	FileController        *appControllers.FileController
	AchievementController *appControllers.AchievementController
	StudentController     *appControllers.StudentController
	HealthController      *appControllers.HealthController
	Logger                zerolog.Logger
}

// ConfigPath returns the configuration file to load
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
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

// OpenDatabase connects to PostgreSQL and verifies the connection
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// SetupDatabase opens the pool, applies migrations and seeds the configured super admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := OpenDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := appMigrations.Up(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, cfg, lgr); err != nil {
		// startup continues; the account can be created later with the admin CLI
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// NewJWTService builds the token service from configuration
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 2*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(filestorage.Options{
		BasePath:          cfg.Server.StoragePath,
		BaseURL:           cfg.Server.PublicBaseURL,
		AllowedExtensions: cfg.Server.AllowedExtensions,
		MaxBytes:          cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = NewJWTService(cfg)
	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.FileStorage)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Services.AuthService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, logger.Component("auth-controller"))
	deps.FileController = appControllers.NewFileController(deps.Services.FileService, logger.Component("file-controller"))
	deps.AchievementController = appControllers.NewAchievementController(deps.Services.AchievementService, logger.Component("achievement-controller"))
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService, logger.Component("student-controller"))
	deps.HealthController = appControllers.NewHealthController(dbPool)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	corsHandler, err := appMiddleware.CORS(cfg.Server.CORSOrigins)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		appMiddleware.Sentry(),
		appMiddleware.RequestIDMiddleware(),
		appMiddleware.RequestLogger(logger.Component("http")),
		corsHandler,
		appMiddleware.SecurityHeaders(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupMetrics(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.FileController,
		deps.AchievementController,
		deps.StudentController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	if err := appRoutes.SetupStaticFiles(router, deps.FileStorage.BasePath(), lgr); err != nil {
		lgr.Error().Err(err).Str("path", cfg.Server.StoragePath).Msg("Failed to create uploads directory")
		return nil, err
	}
	appRoutes.NoRoute(router)

	return router, nil
}
