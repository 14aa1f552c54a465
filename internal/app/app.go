package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qyzmet_backend/database"
	"qyzmet_backend/internal/auth"
	"qyzmet_backend/internal/config"
	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/handlers"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/middleware"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/routes"
	"qyzmet_backend/internal/services"
	"qyzmet_backend/internal/validator"
	"qyzmet_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	startWorkers(workerCtx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		publisher = events.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		logger.Info("Redis event publisher initialized", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("Redis not configured, domain events are disabled")
	}

	userRepo := repositories.NewUserRepository()
	categoryRepo := repositories.NewCategoryRepository()
	jobRepo := repositories.NewJobRequestRepository()
	offerRepo := repositories.NewOfferRepository()
	reviewRepo := repositories.NewReviewRepository()
	complaintRepo := repositories.NewComplaintRepository()
	upgradeRepo := repositories.NewUpgradeRequestRepository()
	notificationRepo := repositories.NewNotificationRepository()

	ratingService := services.NewRatingService(userRepo, reviewRepo, jobRepo)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		UserService:         services.NewUserService(userRepo),
		CategoryService:     services.NewCategoryService(categoryRepo),
		JobRequestService:   services.NewJobRequestService(jobRepo, offerRepo, userRepo, categoryRepo, notificationRepo, publisher),
		OfferService:        services.NewOfferService(offerRepo, jobRepo, userRepo, notificationRepo, publisher),
		ReviewService:       services.NewReviewService(reviewRepo, jobRepo, userRepo, notificationRepo, ratingService, publisher),
		RatingService:       ratingService,
		ModerationService:   services.NewModerationService(complaintRepo, jobRepo, userRepo, notificationRepo, publisher),
		UpgradeService:      services.NewUpgradeService(upgradeRepo, userRepo, notificationRepo, publisher),
		NotificationService: services.NewNotificationService(notificationRepo),
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	v := validator.New()
	base := handlers.NewBaseHandler(v)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, sc.AuthService),
		UserHandler:         handlers.NewUserHandler(base, sc.UserService, sc.RatingService),
		CategoryHandler:     handlers.NewCategoryHandler(base, sc.CategoryService),
		JobRequestHandler:   handlers.NewJobRequestHandler(base, sc.JobRequestService),
		OfferHandler:        handlers.NewOfferHandler(base, sc.OfferService),
		ReviewHandler:       handlers.NewReviewHandler(base, sc.ReviewService),
		ComplaintHandler:    handlers.NewComplaintHandler(base, sc.ModerationService),
		UpgradeHandler:      handlers.NewUpgradeHandler(base, sc.UpgradeService),
		NotificationHandler: handlers.NewNotificationHandler(base, sc.NotificationService),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))
	return ginRouter
}

func startWorkers(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) {
	sc := initializeWorkerServices()

	expiryInterval := time.Duration(cfg.Workers.JobExpiryIntervalMin) * time.Minute
	workers.NewJobExpiryWorker(gormDB, sc.JobRequestService, expiryInterval).Start(ctx)
	workers.NewNotificationWorker(gormDB, sc.NotificationService, cfg.Workers.NotificationRetentionDay).Start(ctx)
	logger.Info("Background workers started")
}

// initializeWorkerServices собирает минимальный набор сервисов для
// фоновых задач. События из воркеров не публикуются.
func initializeWorkerServices() *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	categoryRepo := repositories.NewCategoryRepository()
	jobRepo := repositories.NewJobRequestRepository()
	offerRepo := repositories.NewOfferRepository()
	notificationRepo := repositories.NewNotificationRepository()

	return &services.ServiceContainer{
		JobRequestService:   services.NewJobRequestService(jobRepo, offerRepo, userRepo, categoryRepo, notificationRepo, events.NopPublisher{}),
		NotificationService: services.NewNotificationService(notificationRepo),
	}
}

// seedFirstAdmin создает первого администратора, если его еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("First admin credentials not configured, skipping seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.FirstAdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        cfg.FirstAdminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Roles:        models.RolesJSON(models.RoleAdmin, models.RoleModerator),
		Status:       models.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("First admin user created", "email", cfg.FirstAdminEmail)
	return nil
}
