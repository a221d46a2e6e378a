package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/activityhub/internal/app/controllers"
	appMigrations "github.com/yigit/activityhub/internal/app/migrations"
	appRepos "github.com/yigit/activityhub/internal/app/repositories"
	appRoutes "github.com/yigit/activityhub/internal/app/routes"
	appServices "github.com/yigit/activityhub/internal/app/services"
	"github.com/yigit/activityhub/internal/config"
	"github.com/yigit/activityhub/internal/db"
	appMiddleware "github.com/yigit/activityhub/internal/middleware"
	pkgAuth "github.com/yigit/activityhub/internal/pkg/auth"
	"github.com/yigit/activityhub/internal/pkg/helpers"
	"github.com/yigit/activityhub/internal/pkg/logger"
	"github.com/yigit/activityhub/internal/pkg/validation"
	"github.com/yigit/activityhub/internal/pkg/websocket"
	"github.com/yigit/activityhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Hub            *websocket.Hub
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds
// the default categories.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Activities.SeedCategories {
		categories := appRepos.NewCategoryRepository(database.Pool)
		if err := seed.CreateDefaultData(ctx, categories, lgr); err != nil {
			// Startup continues; the categories can be created through the API
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
// The feed hub is started on ctx and stops when ctx is cancelled.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	validator := validation.New()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 720*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Auth.GatewayKey)

	deps.Hub = websocket.NewHub(logger.Component("feed"))
	go deps.Hub.Run(ctx)

	repos := deps.Repos
	deps.Services = &appServices.Services{
		ActivityService: appServices.NewActivityService(
			repos.ActivityRepository,
			repos.ParticipationRepository,
			repos.CategoryRepository,
			validator,
			cfg.Location(),
			logger.Component("activities"),
		),
		ParticipationService: appServices.NewParticipationService(
			database,
			repos.ActivityRepository,
			repos.ParticipationRepository,
			deps.Hub,
			cfg.Activities.JoinRetryAttempts,
			logger.Component("participations"),
		),
		CategoryService: appServices.NewCategoryService(repos.CategoryRepository, repos.ActivityRepository, validator, logger.Component("categories")),
		CommentService:  appServices.NewCommentService(repos.CommentRepository, repos.ActivityRepository, deps.Hub, validator, logger.Component("comments")),
		AuthService:     appServices.NewAuthService(repos.UserRepository, deps.JWTService, validator, logger.Component("auth")),
		UserService:     appServices.NewUserService(repos.UserRepository, repos.ActivityRepository, repos.ParticipationRepository, validator, logger.Component("users")),
	}

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Activity:      appControllers.NewActivityController(svc.ActivityService),
		Participation: appControllers.NewParticipationController(svc.ParticipationService),
		Category:      appControllers.NewCategoryController(svc.CategoryService),
		Comment:       appControllers.NewCommentController(svc.CommentService),
		Auth:          appControllers.NewAuthController(svc.AuthService, lgr),
		User:          appControllers.NewUserController(svc.UserService),
		Health:        appControllers.NewHealthController(database),
		Feed:          websocket.NewHandler(deps.Hub, repos.ActivityRepository, logger.Component("feed")),
	}

	return deps
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
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.AllowCredentials = true
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}
