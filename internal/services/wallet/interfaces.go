package wallet

import (
	"context"

	"vaultpay/internal/models"
)

// Service defines the main wallet service interface.
type Service interface {
	// Create provisions a wallet for a user, assigning a fresh wallet number.
	// A user gets exactly one wallet; a second call returns ErrWalletExists.
	Create(ctx context.Context, userID uint) (*models.Wallet, error)

	// GetByUserID returns the wallet owned by userID.
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	// GetByNumber resolves a wallet by its public wallet number.
	GetByNumber(ctx context.Context, number string) (*models.Wallet, error)

	// Balance returns the current balance in minor units.
	Balance(ctx context.Context, userID uint) (int64, error)

	// History pages through the wallet's ledger entries, newest first.
	History(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

// CacheOperator is the narrow cache surface wallet reads go through. Misses
// and cache failures both mean "go to the database".
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool)
	SetWallet(ctx context.Context, wallet *models.Wallet)
	InvalidateWallet(ctx context.Context, userID uint)
}
