package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/database"
	"github.com/RanchesW/KazRPG/internal/auth"
	"github.com/RanchesW/KazRPG/internal/cache"
	"github.com/RanchesW/KazRPG/internal/config"
	"github.com/RanchesW/KazRPG/internal/handlers"
	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/middleware"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/ratelimit"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/routes"
	"github.com/RanchesW/KazRPG/internal/search"
	"github.com/RanchesW/KazRPG/internal/services"
	"github.com/RanchesW/KazRPG/internal/validator"
	"github.com/RanchesW/KazRPG/internal/workers"
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

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store := initializeCache(cfg)

	searchAdapter, err := search.NewAdapter(search.Config{
		URL:      cfg.Elasticsearch.URL,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Timeout:  time.Duration(cfg.Elasticsearch.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to initialize search adapter", "error", err)
	}
	if searchAdapter.Available() {
		searchAdapter.EnsureIndex(ctx)
		logger.Info("Search index adapter initialized", "url", cfg.Elasticsearch.URL)
	} else {
		logger.Warn("Search index not configured, catalog will use database only")
	}

	indexer := workers.NewIndexer(searchAdapter, 256)
	indexer.Run(ctx)

	limiter := ratelimit.New(time.Duration(cfg.Cache.CleanupMinutes) * time.Minute)

	tokenMaker := auth.NewTokenMaker(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	serviceContainer := initializeServices(cfg, store, searchAdapter, indexer, tokenMaker)
	appHandlers := initializeHandlers(serviceContainer, store, searchAdapter, gormDB)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, tokenMaker, limiter, cfg)

	return ginRouter
}

// initializeCache выбирает бэкенд: Redis при заданном адресе,
// иначе кэш в памяти процесса
func initializeCache(cfg *config.Config) cache.Store {
	cleanup := time.Duration(cfg.Cache.CleanupMinutes) * time.Minute

	if cfg.Redis.Addr == "" {
		logger.Info("Using in-memory cache")
		return cache.NewMemory(cleanup)
	}

	store, err := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
		return cache.NewMemory(cleanup)
	}

	logger.Info("Using Redis cache", "addr", cfg.Redis.Addr)
	return store
}

func initializeServices(
	cfg *config.Config,
	store cache.Store,
	searchAdapter *search.Adapter,
	indexer *workers.Indexer,
	tokenMaker *auth.TokenMaker,
) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	gameRepo := repositories.NewGameRepository()
	bookingRepo := repositories.NewBookingRepository()
	reviewRepo := repositories.NewReviewRepository()

	catalogService := services.NewCatalogService(gameRepo, userRepo, store, searchAdapter, services.CatalogTTL{
		Catalog: time.Duration(cfg.Cache.CatalogTTLSeconds) * time.Second,
		City:    time.Duration(cfg.Cache.CityTTLSeconds) * time.Second,
	})
	gameService := services.NewGameService(gameRepo, userRepo, catalogService, indexer, searchAdapter)
	bookingService := services.NewBookingService(bookingRepo, gameRepo, catalogService)
	reviewService := services.NewReviewService(
		reviewRepo, userRepo, gameRepo, bookingRepo, store, indexer,
		time.Duration(cfg.Cache.GMStatsTTLSeconds)*time.Second,
	)
	authService := services.NewAuthService(userRepo, tokenMaker)

	return &services.ServiceContainer{
		AuthService:    authService,
		CatalogService: catalogService,
		GameService:    gameService,
		BookingService: bookingService,
		ReviewService:  reviewService,
	}
}

func initializeHandlers(services *services.ServiceContainer, store cache.Store, searchAdapter *search.Adapter, gormDB *gorm.DB) *handlers.AppHandlers {
	customValidator := validator.New()

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(customValidator, services.AuthService),
		GameHandler:    handlers.NewGameHandler(customValidator, services.CatalogService, services.GameService),
		BookingHandler: handlers.NewBookingHandler(customValidator, services.BookingService),
		ReviewHandler:  handlers.NewReviewHandler(customValidator, services.ReviewService),
		HealthHandler:  handlers.NewHealthHandler(gormDB, store, searchAdapter),
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

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		Username:     "admin",
		PasswordHash: string(hashedPassword),
		FirstName:    "Admin",
		LastName:     "KazRPG",
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
