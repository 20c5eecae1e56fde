package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/JackLockhart04/course-genius/docs" // Import generated swagger docs
	appControllers "github.com/JackLockhart04/course-genius/internal/app/controllers"
	appMigrations "github.com/JackLockhart04/course-genius/internal/app/migrations"
	appRepos "github.com/JackLockhart04/course-genius/internal/app/repositories"
	appRoutes "github.com/JackLockhart04/course-genius/internal/app/routes"
	appServices "github.com/JackLockhart04/course-genius/internal/app/services"
	"github.com/JackLockhart04/course-genius/internal/config"
	"github.com/JackLockhart04/course-genius/internal/db"
	appMiddleware "github.com/JackLockhart04/course-genius/internal/middleware"
	"github.com/JackLockhart04/course-genius/internal/pkg/identity"
	"github.com/JackLockhart04/course-genius/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService        *appServices.CourseService
	AssignmentService    *appServices.AssignmentService
	UserService          *appServices.UserService
	CourseController     *appControllers.CourseController
	AssignmentController *appControllers.AssignmentController
	UserController       *appControllers.UserController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	Verifier             *identity.ProviderVerifier
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens both database capabilities and runs migrations on the
// elevated one. The restricted pool is what the application code queries
// through; the elevated pool exists for schema management and health checks.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.UserDB, *db.AdminDB, error) {
	lgr.Info().Msg("Establishing database connections...")

	adminDB, err := db.NewAdminDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect with the elevated role")
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminDB.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		adminDB.Close()
		return nil, nil, err
	}

	// Run migrations before the restricted pool connects: the restricted
	// role is created by the migrations themselves on a fresh database.
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(adminDB.Pool())

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		adminDB.Close()
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		adminDB.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	userDB, err := db.NewUserDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect with the restricted role")
		adminDB.Close()
		return nil, nil, err
	}
	if err := userDB.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database with the restricted role")
		userDB.Close()
		adminDB.Close()
		return nil, nil, err
	}

	lgr.Info().Msg("Database connections successfully established.")
	return userDB, adminDB, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, userDB *db.UserDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(userDB)

	verifier, err := identity.NewProviderVerifier(identity.Config{
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		JWKSURL:  cfg.Auth.JWKSURL,
		Secret:   cfg.Auth.Secret,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize token verifier")
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	deps.Verifier = verifier

	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.StatsRepository)
	deps.AssignmentService = appServices.NewAssignmentService(deps.Repos.AssignmentRepository)
	deps.UserService = appServices.NewUserService(deps.Repos.ProfileRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Verifier)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService)
	deps.UserController = appControllers.NewUserController(deps.UserService)

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

	router := gin.Default()

	// Shared-secret gate sits in front of everything, CORS right after.
	router.Use(appMiddleware.FrontDoor(cfg.Server.FrontDoorSecret))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Authorization", "Content-Type", appMiddleware.FrontDoorHeader}
	router.Use(cors.New(corsConfig))

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.AssignmentController,
		deps.UserController,
		deps.AuthMiddleware,
	)

	return router
}
