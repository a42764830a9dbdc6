package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/story-creator/backend/internal/middleware"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/internal/router"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/anonto42/story-creator/backend/internal/web"
	"github.com/anonto42/story-creator/backend/migrations"
	"github.com/anonto42/story-creator/backend/pkg/config"
	"github.com/anonto42/story-creator/backend/pkg/firebase"
	"github.com/anonto42/story-creator/backend/pkg/geo"
	"github.com/anonto42/story-creator/backend/pkg/mailer"
	"github.com/anonto42/story-creator/backend/pkg/migration"
	"github.com/anonto42/story-creator/backend/pkg/resettoken"
	"github.com/anonto42/story-creator/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if cfg.AutoMigrate {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			return err
		}
		if err := migration.NewMigrator(sqlDB, migrations.FS, ".", log).Up(); err != nil {
			return err
		}
	}

	deps := router.Deps{
		Postgres:    db.Postgres,
		ResetTokens: resettoken.NewSigner(cfg.ResetTokenSecret, cfg.ResetTokenTTL),
		Mailer: mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log),
		UploadDir: cfg.UploadDir,
		BaseURL:   cfg.BaseURL,
		Logger:    log,
		Sessions: session.NewManager(session.NewStore(session.Config{
			Secret: cfg.SessionSecret,
			Dir:    cfg.SessionDir,
			MaxAge: cfg.SessionMaxAge,
			Secure: cfg.IsProduction(),
		})),
	}

	if db.Mongo != nil {
		deps.Mongo = db.Mongo.Database(cfg.MongoDatabase)
		activities := repositories.NewMongoActivityRepository(deps.Mongo)
		if err := activities.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to create activity indexes", zap.Error(err))
		}
	}

	if deps.Uploads, err = storage.NewUploads(afero.NewOsFs(), cfg.UploadDir); err != nil {
		return err
	}

	// Initialize Firebase
	verifier, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrNotConfigured):
		log.Info("Firebase not configured, federated login disabled")
	case err != nil:
		return err
	default:
		deps.FirebaseAuth = verifier
	}

	var geoCache geo.Cache = geo.NoopCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		geoCache = geo.NewRedisCache(rdb, log)
	}
	deps.Geo = geo.NewClient(geo.Config{
		BaseURL:  cfg.GeoBaseURL,
		APIKey:   cfg.GeoAPIKey,
		CacheTTL: cfg.GeoCacheTTL,
	}, geoCache, log.Named("geo"))

	renderer, err := web.NewTemplateRenderer(log)
	if err != nil {
		return err
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	config.SetupMiddleware(e, middleware.EchoZapLogger(log), log)
	router.SetupRoutes(e, deps)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("Shutting down server")
	return e.Shutdown(shutdownCtx)
}
