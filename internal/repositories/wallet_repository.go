package repositories

import (
	"context"

	"vaultpay/internal/models"
)

// WalletRepository defines wallet reads and creation against the shared
// connection pool.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByNumber(ctx context.Context, number string) (*models.Wallet, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// WalletTxRepository adds the operations that are only valid inside a unit of
// work. Balance writes are deliberately absent from WalletRepository: the only
// way to move money is to lock the row first.
type WalletTxRepository interface {
	WalletRepository

	// LockForUpdate loads a wallet under SELECT ... FOR UPDATE. The lock is
	// held until the surrounding unit of work commits or rolls back.
	LockForUpdate(ctx context.Context, walletID uint) (*models.Wallet, error)

	// UpdateBalance overwrites the balance of a wallet the caller has locked.
	UpdateBalance(ctx context.Context, walletID uint, balance int64) error
}
