package repositories

import (
	"context"
	"errors"
	"fmt"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Record(ctx context.Context, entry *models.Transaction) error {
	if entry.Amount <= 0 {
		return domainErrors.ErrInvalidAmount
	}
	if !entry.Type.Valid() {
		return domainErrors.Wrap(domainErrors.ErrInvalidOperation, fmt.Sprintf("unknown transaction type %q", entry.Type))
	}
	if entry.Status == "" {
		entry.Status = models.TransactionStatusPending
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domainErrors.ErrDuplicateReference
		}
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var entry models.Transaction
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &entry, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var entry models.Transaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return &entry, nil
}

func (r *transactionRepository) ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("wallet_id = ?", walletID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var entries []models.Transaction
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, total, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uint, next models.TransactionStatus, patch models.JSON) (*models.Transaction, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, domainErrors.ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": next}
	merged := current.Metadata
	if len(patch) > 0 {
		merged = current.Metadata.Merge(patch)
		updates["metadata"] = merged
	}

	// Compare-and-swap on the status we read, in case the row moved between
	// the read and the write outside a unit of work.
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, current.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainErrors.ErrContention
	}

	current.Status = next
	current.Metadata = merged
	return current, nil
}

func (r *transactionRepository) MergeMetadata(ctx context.Context, id uint, patch models.JSON) error {
	if len(patch) == 0 {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("metadata", current.Metadata.Merge(patch)).Error
	if err != nil {
		return fmt.Errorf("failed to merge transaction metadata: %w", err)
	}
	return nil
}

func (r *transactionRepository) LockByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	if !r.inTx {
		return nil, ErrNotInTransaction
	}
	var entry models.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", reference, err)
	}
	return &entry, nil
}
