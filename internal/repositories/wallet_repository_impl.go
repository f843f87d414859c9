package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotInTransaction is returned when a transaction-only operation is called
// on a repository that is not bound to a unit of work.
var ErrNotInTransaction = errors.New("repositories: operation requires an active transaction")

type walletRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			// The wallets table carries two unique indexes; the constraint
			// name tells us which race we lost.
			if strings.Contains(constraint, "user_id") {
				return domainErrors.ErrWalletExists
			}
			if strings.Contains(constraint, "wallet_number") {
				return domainErrors.ErrWalletNumberTaken
			}
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by user: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByNumber(ctx context.Context, number string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("wallet_number = ?", number).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by number: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("wallet_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wallet number: %w", err)
	}
	return count > 0, nil
}

func (r *walletRepository) LockForUpdate(ctx context.Context, walletID uint) (*models.Wallet, error) {
	if !r.inTx {
		return nil, ErrNotInTransaction
	}
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, walletID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet %d: %w", walletID, err)
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateBalance(ctx context.Context, walletID uint, balance int64) error {
	if !r.inTx {
		return ErrNotInTransaction
	}
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrWalletNotFound
	}
	return nil
}
