package repositories

import (
	"context"

	"vaultpay/internal/models"
)

// TransactionRepository defines ledger reads and appends against the shared
// connection pool. Ledger rows are append-only: nothing here deletes, and the
// only mutation is the forward-only status transition.
type TransactionRepository interface {
	Record(ctx context.Context, entry *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error)

	// UpdateStatus moves a ledger entry through its lifecycle. Repeating the
	// current status is a no-op that returns the stored row; moving out of a
	// terminal status fails with ErrInvalidTransition. The metadata patch, if
	// any, is merged key-by-key into the stored metadata.
	UpdateStatus(ctx context.Context, id uint, next models.TransactionStatus, patch models.JSON) (*models.Transaction, error)

	// MergeMetadata merges patch into the entry's metadata without touching
	// its status.
	MergeMetadata(ctx context.Context, id uint, patch models.JSON) error
}

// TransactionTxRepository adds the lock-taking lookup used by deposit
// reconciliation, valid only inside a unit of work.
type TransactionTxRepository interface {
	TransactionRepository

	// LockByReference loads a ledger entry by reference under
	// SELECT ... FOR UPDATE so concurrent reconciliations of the same payment
	// event serialize on the row.
	LockByReference(ctx context.Context, reference string) (*models.Transaction, error)
}
