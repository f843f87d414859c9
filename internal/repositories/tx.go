package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UnitOfWork bundles the transaction-scoped repositories handed to a
// RunInTransaction closure. Every operation on it runs on the same database
// transaction, so row locks taken through it are held until the closure
// returns and commit or rollback is decided in one place.
type UnitOfWork struct {
	Wallets      WalletTxRepository
	Transactions TransactionTxRepository
}

// TxManager runs closures inside a single database transaction.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(uow *UnitOfWork) error) error
}

type txManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewTxManager creates a TxManager. lockTimeout bounds how long a closure may
// wait on a row lock before the whole unit of work fails with ErrContention;
// zero disables the bound.
func NewTxManager(db *gorm.DB, lockTimeout time.Duration) TxManager {
	return &txManager{db: db, lockTimeout: lockTimeout}
}

func (m *txManager) RunInTransaction(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.lockTimeout > 0 {
			// lock_timeout takes a literal, not a bind parameter.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(&UnitOfWork{
			Wallets:      &walletRepository{db: tx, inTx: true},
			Transactions: &transactionRepository{db: tx, inTx: true},
		})
	})
	return translateLockError(err)
}
