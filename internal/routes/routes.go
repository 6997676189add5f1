// Package routes wires repositories, services and handlers onto the Fiber
// app. It is the only place the dependency graph is assembled.
package routes

import (
	"centime/internal/config"
	"centime/internal/handlers"
	"centime/internal/metrics"
	"centime/internal/middleware"
	"centime/internal/repositories"
	"centime/internal/services/card"
	"centime/internal/services/currency"
	"centime/internal/services/maintenance"
	"centime/internal/services/notification"
	"centime/internal/services/recurring"
	"centime/internal/services/transaction"
	"centime/internal/services/user"
	"centime/internal/services/verification"
	"centime/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services exposes the long-lived services that the background workers
// share with the HTTP surface.
type Services struct {
	Recurring   *recurring.Service
	Maintenance *maintenance.Service
}

// SetupRoutes builds the full dependency graph and registers every route.
func SetupRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger) *Services {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	recurringRepo := repositories.NewRecurringRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	userRepo := repositories.NewUserRepository(db)
	cardRepo := repositories.NewCreditCardRepository(db)

	collector := metrics.NewPrometheusCollector(prometheus.DefaultRegisterer)

	// Services
	settings := wallet.Settings{
		DefaultCurrency:         config.GetEnv("DEFAULT_CURRENCY", wallet.DefaultCurrency),
		DefaultInterestRate:     decimal.NewFromFloat(config.GetFloatEnv("SAVINGS_INTEREST_RATE", wallet.DefaultInterestRate)),
		DefaultOverdraftLimit:   decimal.NewFromFloat(config.GetFloatEnv("OVERDRAFT_LIMIT", wallet.DefaultOverdraftLimit)),
		NegativeMonthsThreshold: config.GetIntEnv("NEGATIVE_MONTHS_THRESHOLD", wallet.DefaultNegativeMonthsThreshold),
	}

	userService := user.NewService(userRepo, log)
	walletService := wallet.NewService(walletRepo, repositories.CacheService, settings, log)
	cardService := card.NewService(cardRepo, card.NewStripeTokenizer(), log)
	notifier := notification.NewLogNotifier(log)
	converter := currency.NewStaticConverter(currency.DefaultRates())

	var pending transaction.PendingStore
	if repositories.CacheService != nil {
		pending = verification.NewRedisStore(repositories.CacheService.Client())
	} else {
		pending = verification.NewMemoryStore()
	}

	txService := transaction.NewService(transaction.Config{
		WalletRepo:    walletRepo,
		TxRepo:        txRepo,
		RecurringRepo: recurringRepo,
		CategoryRepo:  categoryRepo,
		Pending:       pending,
		Notifier:      notifier,
		Converter:     converter,
		Users:         userService,
		Cache:         repositories.CacheService,
		Metrics:       collector,
		Logger:        log,
	})

	verifyService := verification.NewService(pending, txService, collector, log)
	recurringService := recurring.NewService(recurringRepo, txRepo, walletRepo, txService, collector, log)
	maintenanceService := maintenance.NewService(walletRepo, userService, repositories.CacheService, settings, collector, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService)
	txHandler := handlers.NewTransactionHandler(txService, verifyService, recurringService)
	cardHandler := handlers.NewCardHandler(cardService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	adminHandler := handlers.NewAdminHandler(recurringService, maintenanceService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "centime", "status": "ok"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"database": "up"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status["database"] = "down"
		}
		return c.JSON(status)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	protected := api.Use(middleware.Auth())

	wallets := protected.Group("/wallets")
	wallets.Post("/", walletHandler.Create)
	wallets.Get("/", walletHandler.List)
	wallets.Get("/:id", walletHandler.Get)
	wallets.Post("/:id/members", walletHandler.AddMember)
	wallets.Put("/:id/overdraft", walletHandler.SetOverdraft)

	txs := protected.Group("/transactions")
	txs.Post("/", txHandler.Create)
	txs.Post("/verify", txHandler.Verify)
	txs.Get("/", txHandler.List)
	txs.Post("/:id/category", txHandler.SetCategory)

	protected.Delete("/recurring/:id", txHandler.CancelRecurring)

	cards := protected.Group("/cards")
	cards.Post("/", cardHandler.Link)
	cards.Get("/", cardHandler.List)
	cards.Delete("/:id", cardHandler.Delete)

	categories := protected.Group("/categories")
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	admin := api.Group("/admin", middleware.Auth(), middleware.AdminOnly())
	admin.Post("/jobs/recurring", adminHandler.ProcessRecurring)
	admin.Post("/jobs/interest", adminHandler.ApplyMonthlyInterest)

	return &Services{
		Recurring:   recurringService,
		Maintenance: maintenanceService,
	}
}
