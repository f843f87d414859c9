// Command seed provisions a demo account for local development: a user
// with a wallet and an API key carrying every delegable permission. The
// key secret is printed once and is not recoverable afterwards.
package main

import (
	"context"
	"errors"
	"log"

	"vaultpay/internal/config"
	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/apikey"
	"vaultpay/internal/services/auth"
	"vaultpay/internal/services/wallet"
)

func main() {
	config.LoadEnv()

	email := config.GetEnv("SEED_EMAIL", "demo@vaultpay.local")
	password := config.GetEnv("SEED_PASSWORD", "")
	if password == "" {
		log.Fatal("SEED_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer closeStorage()

	ctx := context.Background()

	userRepo := repositories.NewUserRepository(repositories.DB, repositories.Cache)
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	transactionRepo := repositories.NewTransactionRepository(repositories.DB)
	keyRepo := repositories.NewAPIKeyRepository(repositories.DB)

	cacheOp := wallet.NewCacheOperator(repositories.Cache)
	walletService := wallet.NewService(walletRepo, transactionRepo, cacheOp, nil, wallet.Config{}, nil)
	authService := auth.NewService(userRepo, walletService)
	keyService := apikey.NewService(keyRepo)

	user, err := userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Printf("demo user %s already exists", email)
	case errors.Is(err, domainErrors.ErrUserNotFound):
		user, _, _, err = authService.Register(ctx, models.CreateUserInput{
			Name:     config.GetEnv("SEED_NAME", "Demo User"),
			Email:    email,
			Phone:    config.GetEnv("SEED_PHONE", "+2348000000000"),
			Password: password,
		})
		if err != nil {
			log.Fatalf("failed to register demo user: %v", err)
		}
		log.Printf("created demo user %s", email)
	default:
		log.Fatalf("failed to look up demo user: %v", err)
	}

	w, err := walletService.GetByUserID(ctx, user.ID)
	if err != nil {
		log.Fatalf("failed to load demo wallet: %v", err)
	}

	key, secret, err := keyService.Issue(ctx, user.ID, "seed", models.AllPermissions)
	if err != nil {
		log.Fatalf("failed to issue api key: %v", err)
	}

	log.Printf("wallet number: %s", w.WalletNumber)
	log.Printf("api key %q (prefix %s), store this secret now: %s", key.Label, key.Prefix, secret)
}

func closeStorage() {
	if repositories.DB != nil {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database: %v", err)
			}
		}
	}
	if repositories.Cache != nil {
		if err := repositories.Cache.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}
}
