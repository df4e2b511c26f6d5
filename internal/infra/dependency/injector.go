// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/auth"
	"github.com/expense-tracker/backend/internal/application/usecase/category"
	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/cache"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/persistence"
	"github.com/expense-tracker/backend/internal/integration/worker"
)

const loginRateLimitPrefix = "login:"

// Injector holds all application dependencies.
type Injector struct {
	Config         *config.Config
	DB             *gorm.DB
	RateLimitStore adapter.RateLimitStore
	SessionCleanup *worker.SessionCleanupWorker
	Router         *router.Router
}

// Options carries optional collaborators. Zero values select the production defaults.
type Options struct {
	// Redis backs the login rate limiter when set; otherwise counts are kept in memory.
	Redis *redis.Client
	Clock adapter.Clock
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) *Injector {
	clock := opts.Clock
	if clock == nil {
		clock = adapters.NewSystemClock()
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	sessionRepo := persistence.NewSessionRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	if cfg.IsTest() {
		passwordService = adapters.NewPasswordServiceWithCost(bcrypt.MinCost)
	}
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.SessionExpiry, sessionRepo, clock)

	var rateLimitStore adapter.RateLimitStore
	var cacheHealthChecker controller.HealthChecker
	var cleaners []worker.Cleaner
	if opts.Redis != nil {
		rateLimitStore = cache.NewRedisRateLimitStore(opts.Redis)
		cacheHealthChecker = func(ctx context.Context) error {
			return opts.Redis.Ping(ctx).Err()
		}
	} else {
		memoryStore := cache.NewMemoryRateLimitStore()
		rateLimitStore = memoryStore
		cleaners = append(cleaners, memoryStore)
	}

	sessionCleanup := worker.NewSessionCleanupWorker(sessionRepo, clock, worker.SessionCleanupConfig{
		Interval:  cfg.JWT.CleanupInterval,
		Retention: cfg.JWT.SessionRetention,
	}, cleaners...)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create expense use cases
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo)
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, categoryRepo)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo)
	getReportUseCase := report.NewGetReportUseCase(expenseRepo, categoryRepo, clock, cfg.Report.YearlyWindow)

	// Create controllers
	healthController := controller.NewHealthController(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		return sqlDB.PingContext(ctx)
	}, cacheHealthChecker)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		logoutUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		deleteCategoryUseCase,
	)

	expenseController := controller.NewExpenseController(
		listExpensesUseCase,
		createExpenseUseCase,
		deleteExpenseUseCase,
		getReportUseCase,
	)

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiterWithConfig(
		rateLimitStore,
		loginRateLimitPrefix,
		cfg.RateLimit.LoginMaxAttempts,
		cfg.RateLimit.LoginWindow,
	)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, categoryController, expenseController, loginRateLimiter, authMiddleware)

	return &Injector{
		Config:         cfg,
		DB:             db,
		RateLimitStore: rateLimitStore,
		SessionCleanup: sessionCleanup,
		Router:         r,
	}
}
