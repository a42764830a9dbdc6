package router

import (
	"github.com/anonto42/story-creator/backend/internal/handlers"
	"github.com/anonto42/story-creator/backend/internal/middleware"
	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/anonto42/story-creator/backend/pkg/mailer"
	"github.com/anonto42/story-creator/backend/pkg/resettoken"
	"github.com/anonto42/story-creator/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the handlers are built from.
type Deps struct {
	Postgres     *gorm.DB
	Mongo        *mongo.Database // nil disables the activity log
	Sessions     *session.Manager
	ResetTokens  *resettoken.Signer
	Mailer       mailer.Sender
	Uploads      *storage.Uploads
	UploadDir    string
	Geo          handlers.PlaceLookup
	FirebaseAuth handlers.TokenVerifier // nil disables federated login
	BaseURL      string
	Logger       *zap.Logger
}

// ActivityRepository picks the Mongo activity log when a database is given.
func ActivityRepository(db *mongo.Database) repositories.ActivityRepository {
	if db == nil {
		return repositories.NoopActivityRepository{}
	}
	return repositories.NewMongoActivityRepository(db)
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	log := d.Logger

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.Postgres)
	storyRepo := repositories.NewPostgresStoryRepository(d.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(d.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(d.Postgres)
	engagementRepo := repositories.NewPostgresEngagementRepository(d.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.Postgres)
	categoryRepo := repositories.NewPostgresCategoryRepository(d.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(d.Postgres)
	activityRepo := ActivityRepository(d.Mongo)

	e.Use(middleware.Metrics())
	e.Use(middleware.LoadSession(d.Sessions, userRepo, log))

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/static/uploads", d.UploadDir)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, d.Sessions, d.ResetTokens, d.Mailer, d.FirebaseAuth, d.BaseURL, log)
	userHandler := handlers.NewUserHandler(userRepo, d.Uploads, log)
	storyHandler := handlers.NewStoryHandler(storyRepo, categoryRepo, d.Uploads, log)
	feedHandler := handlers.NewFeedHandler(storyRepo, commentRepo, likeRepo, categoryRepo, log)
	engagementHandler := handlers.NewEngagementHandler(likeRepo, commentRepo, engagementRepo, activityRepo, log)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, d.Sessions, log)
	adminHandler := handlers.NewAdminHandler(userRepo, storyRepo, d.Uploads, log)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, log)
	reportHandler := handlers.NewReportHandler(reportRepo, storyRepo, userRepo, categoryRepo, engagementRepo, activityRepo, log)
	geoHandler := handlers.NewGeoHandler(d.Geo)
	pagesHandler := handlers.NewPagesHandler(log)

	// --- Public routes ---
	public := e.Group("")
	pagesHandler.RegisterPageRoutes(public)
	authHandler.RegisterAuthRoutes(public)
	feedHandler.RegisterPublicRoutes(public)
	adminHandler.RegisterUserDeletionRoute(public)
	geoHandler.RegisterGeoRoutes(e.Group("/api"))
	log.Info("Public routes configured")

	// --- Any signed-in user ---
	account := e.Group("", middleware.RequireLogin())
	authHandler.RegisterAccountRoutes(account)
	userHandler.RegisterProfileRoutes(account)
	notificationHandler.RegisterNotificationRoutes(account)
	log.Info("Account routes configured")

	// --- Reader dashboard ---
	reader := e.Group("/reader", middleware.RequireRole(models.RoleReader))
	reportHandler.RegisterReaderRoutes(reader)
	feedHandler.RegisterReaderRoutes(reader)
	engagementHandler.RegisterEngagementRoutes(reader)
	notificationHandler.RegisterReaderRoutes(reader)
	log.Info("Reader routes configured")

	// --- Author dashboard ---
	author := e.Group("/author", middleware.RequireRole(models.RoleAuthor))
	reportHandler.RegisterAuthorRoutes(author)
	storyHandler.RegisterStoryRoutes(author)
	feedHandler.RegisterAuthorRoutes(author)
	engagementHandler.RegisterEngagementRoutes(author)
	notificationHandler.RegisterAuthorRoutes(author)
	log.Info("Author routes configured")

	// --- Admin dashboard ---
	admin := e.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	reportHandler.RegisterAdminRoutes(admin)
	feedHandler.RegisterAdminRoutes(admin)
	adminHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	notificationHandler.RegisterAdminRoutes(admin)
	log.Info("Admin routes configured")

	log.Info("All routes configured", zap.Int("routes", len(e.Routes())))
}
