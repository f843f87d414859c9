// Package routes builds the dependency graph and mounts every HTTP route on
// the Fiber app.
package routes

import (
	"time"

	"vaultpay/internal/config"
	"vaultpay/internal/handlers"
	"vaultpay/internal/middleware"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/apikey"
	"vaultpay/internal/services/auth"
	"vaultpay/internal/services/deposit"
	"vaultpay/internal/services/gateway"
	"vaultpay/internal/services/transfer"
	"vaultpay/internal/services/wallet"
	"vaultpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories.
	userRepo := repositories.NewUserRepository(db, repositories.Cache)
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	keyRepo := repositories.NewAPIKeyRepository(db)
	txManager := repositories.NewTxManager(db, config.GetDurationEnv("TX_LOCK_TIMEOUT", 3*time.Second))

	cacheOp := wallet.NewCacheOperator(repositories.Cache)

	// Services.
	walletService := wallet.NewService(walletRepo, transactionRepo, cacheOp, nil, wallet.Config{}, nil)
	authService := auth.NewService(userRepo, walletService)
	keyService := apikey.NewService(keyRepo)
	transferService := transfer.NewService(walletService, txManager, cacheOp)

	stripeClient := gateway.NewStripeClient(gateway.StripeConfig{
		SecretKey:     config.GetEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		SuccessURL:    config.GetEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/deposit/success"),
		CancelURL:     config.GetEnv("STRIPE_CANCEL_URL", "http://localhost:3000/deposit/cancel"),
	})
	depositMin := config.GetInt64Env("DEPOSIT_MIN_AMOUNT", validation.MinTransactionAmount)
	depositService := deposit.NewService(walletService, transactionRepo, txManager, stripeClient, cacheOp, deposit.Config{
		MinAmount: depositMin,
	})

	// Handlers.
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	walletHandler := handlers.NewWalletHandler(walletService)
	transferHandler := handlers.NewTransferHandler(transferService)
	depositHandler := handlers.NewDepositHandler(depositService, depositMin)
	webhookHandler := handlers.NewWebhookHandler(depositService)
	keyHandler := handlers.NewAPIKeyHandler(keyService)
	healthHandler := handlers.NewHealthHandler(db, repositories.Cache)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, keyService)

	// Credential endpoints get a tighter rate limit than the rest of the API.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	})
	// Sized well above the processor's delivery rate, including retry bursts.
	webhookLimiter := limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	})

	app.Get("/health", healthHandler.Check)

	// The processor authenticates with its signature, not with our auth
	// middleware.
	app.Post("/webhooks/stripe", webhookLimiter, webhookHandler.HandleStripe)

	api := app.Group("/api")

	// Public endpoints.
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/refresh", authLimiter, authHandler.Refresh)

	// Everything registered from here on requires a principal.
	protected := api.Use(authMiddleware.Handler)

	protected.Get("/me", authHandler.Me)
	protected.Post("/logout", middleware.RequireSession, authHandler.Logout)
	protected.Post("/change-password", middleware.RequireSession, authHandler.ChangePassword)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.RequirePermission(models.PermissionWalletRead), walletHandler.GetWallet)
	walletGroup.Get("/balance", middleware.RequirePermission(models.PermissionWalletRead), walletHandler.GetBalance)

	protected.Get("/transactions", middleware.RequirePermission(models.PermissionWalletRead), walletHandler.GetTransactions)

	protected.Post("/transfers", middleware.RequirePermission(models.PermissionWalletTransfer), transferHandler.Transfer)

	protected.Post("/deposits", middleware.RequirePermission(models.PermissionWalletDeposit), depositHandler.Initiate)
	protected.Get("/deposits/:reference", middleware.RequirePermission(models.PermissionWalletRead), depositHandler.Status)

	// Key management never runs on a key.
	keys := protected.Group("/keys", middleware.RequireSession)
	keys.Post("/", keyHandler.Issue)
	keys.Get("/", keyHandler.List)
	keys.Delete("/:id", keyHandler.Revoke)
}
