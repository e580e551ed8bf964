package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"salonhub_backend/database"
	"salonhub_backend/internal/config"
	"salonhub_backend/internal/email"
	"salonhub_backend/internal/handlers"
	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/middleware"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/routes"
	"salonhub_backend/internal/services"
	"salonhub_backend/internal/validator"
	"salonhub_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	notificationWorker := workers.NewNotificationWorker(
		gormDB,
		repositories.NewNotificationRepository(),
		cfg.Notifications.RetentionDays,
	)
	if err := notificationWorker.Start(); err != nil {
		logger.Fatal("Failed to start notification worker", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		notificationWorker.Stop()
		os.Exit(0)
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewGomailProvider(cfg)
	} else {
		logger.Warn("SMTP is not configured. Using MOCK email provider.")
		emailService = &MockEmailProvider{}
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	bookingRepo := repositories.NewBookingRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// --- Инициализация сервисов ---
	notificationService := services.NewNotificationService(notificationRepo)
	referralService := services.NewReferralService(
		profileRepo,
		cfg.Referral.CodePrefix,
		cfg.Referral.CodeLength,
		cfg.Referral.MaxAttempts,
	)
	rewardService := services.NewRewardService(profileRepo, notificationService)
	bookingService := services.NewBookingService(bookingRepo, userRepo, notificationService)
	profileService := services.NewProfileService(profileRepo)
	authService := services.NewAuthService(userRepo, profileRepo, referralService, emailService)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProfileService:      profileService,
		ReferralService:     referralService,
		RewardService:       rewardService,
		BookingService:      bookingService,
		NotificationService: notificationService,
		EmailService:        emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, services.ProfileService),
		ReferralHandler:     handlers.NewReferralHandler(baseHandler, services.ReferralService),
		RewardHandler:       handlers.NewRewardHandler(baseHandler, services.RewardService, services.NotificationService),
		BookingHandler:      handlers.NewBookingHandler(baseHandler, services.BookingService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
