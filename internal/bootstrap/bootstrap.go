package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/svce/alumniconnect/internal/app/controllers"
	appMigrations "github.com/svce/alumniconnect/internal/app/migrations"
	appRepos "github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/app/repositories/inmem"
	appRoutes "github.com/svce/alumniconnect/internal/app/routes"
	appServices "github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/config"
	"github.com/svce/alumniconnect/internal/db"
	appMiddleware "github.com/svce/alumniconnect/internal/middleware"
	pkgAuth "github.com/svce/alumniconnect/internal/pkg/auth"
	"github.com/svce/alumniconnect/internal/pkg/email"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/logger"
	"github.com/svce/alumniconnect/internal/pkg/meetinggen"
	"github.com/svce/alumniconnect/internal/seed"
)

const startupTimeout = 30 * time.Second

// Stores holds the repositories and whatever must be closed on shutdown
type Stores struct {
	Repos   *appRepos.Repositories
	closers []func()
}

// Close releases the backing connections in reverse order of opening
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	ProfileService      appServices.ProfileService
	JobService          appServices.JobService
	MeetingService      appServices.MeetingService
	NotificationService appServices.NotificationService
	AdminService        appServices.AdminService
	DashboardService    appServices.DashboardService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
}

// ConfigPath returns the config file location, overridable through CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
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
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStores opens the configured backend. The memory driver keeps everything in process;
// the postgres driver pairs PostgreSQL (profiles, capacity, notifications) with MongoDB (jobs, meetings).
func SetupStores(cfg *config.Config, lgr zerolog.Logger) (*Stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return &Stores{Repos: inmem.New().Repositories()}, nil
	}

	stores := &Stores{}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	lgr.Info().Msg("Establishing database connection...")
	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	stores.closers = append(stores.closers, pg.Close)

	if err := pg.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		stores.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := runMigrations(ctx, cfg, pg, lgr); err != nil {
		stores.Close()
		return nil, err
	}

	mongoDB, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
		stores.Close()
		return nil, err
	}
	stores.closers = append(stores.closers, mongoDB.Close)

	jobRepo := appRepos.NewJobRepository(mongoDB.Database)
	meetingRepo := appRepos.NewMeetingRepository(mongoDB.Database)
	if err := mongoDB.EnsureIndexes(ctx, jobRepo, meetingRepo); err != nil {
		lgr.Error().Err(err).Msg("Failed to create MongoDB indexes")
		stores.Close()
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}

	stores.Repos = &appRepos.Repositories{
		ProfileRepository:      appRepos.NewProfileRepository(pg.Pool),
		JobRepository:          jobRepo,
		MeetingRepository:      meetingRepo,
		RegistrationRepository: appRepos.NewRegistrationRepository(pg),
		NotificationRepository: appRepos.NewNotificationRepository(pg.Pool),
		Health: map[string]appRepos.Pinger{
			"postgres": pg,
			"mongo":    mongoDB,
		},
	}
	return stores, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, pg *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); errors.Is(err, os.ErrNotExist) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := appMigrations.NewMigrator(pg.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes services, middleware and controllers over repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		PortalURL: cfg.SMTP.PortalURL,
	}, logger.Component("email"))

	opts := appServices.OptionsFromConfig(cfg)

	deps.NotificationService = appServices.NewNotificationService(repos.NotificationRepository, repos.ProfileRepository, opts, logger.Component("notifications"))
	deps.AuthService = appServices.NewAuthService(repos.ProfileRepository, deps.JWTService, opts, logger.Component("auth"))
	deps.ProfileService = appServices.NewProfileService(repos.ProfileRepository, opts)
	deps.JobService = appServices.NewJobService(repos.JobRepository, deps.NotificationService, opts, logger.Component("jobs"))
	deps.MeetingService = appServices.NewMeetingService(
		repos.MeetingRepository,
		repos.RegistrationRepository,
		deps.NotificationService,
		meetinggen.New(cfg.Portal.MeetingURLBase),
		opts,
		logger.Component("meetings"),
	)
	deps.AdminService = appServices.NewAdminService(repos, deps.NotificationService, mailer, opts, logger.Component("admin"))
	deps.DashboardService = appServices.NewDashboardService(repos, deps.JobService, deps.MeetingService, opts)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.ProfileRepository, logger.Component("auth_middleware"))

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService),
		Profile:      appControllers.NewProfileController(deps.ProfileService, deps.DashboardService),
		Job:          appControllers.NewJobController(deps.JobService),
		Meeting:      appControllers.NewMeetingController(deps.MeetingService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Admin:        appControllers.NewAdminController(deps.AdminService),
		Health:       appControllers.NewHealthController(repos.Health),
	}

	return deps
}

// SeedDefaultData creates the admin and sample records. Failures are logged, not fatal.
func SeedDefaultData(cfg *config.Config, deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	err := seed.CreateDefaultData(ctx, cfg, deps.Repos, seed.Services{
		Jobs:     deps.JobService,
		Meetings: deps.MeetingService,
	}, logger.Component("seed"))
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
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
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		lgr.Warn().Err(err).Strs("proxies", cfg.Server.TrustedProxies).Msg("Ignoring invalid trusted proxies")
	}
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
