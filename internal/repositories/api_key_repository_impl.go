package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"

	"gorm.io/gorm"
)

// ErrPrefixCollision is returned when a freshly generated key prefix already
// exists. Callers regenerate and retry.
var ErrPrefixCollision = errors.New("repositories: api key prefix already exists")

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if err := r.db.WithContext(ctx).Create(key).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrPrefixCollision
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (r *apiKeyRepository) GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.WithContext(ctx).Where("prefix = ?", prefix).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return &key, nil
}

func (r *apiKeyRepository) ListByUser(ctx context.Context, userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

func (r *apiKeyRepository) Revoke(ctx context.Context, userID, keyID uint) error {
	var key models.APIKey
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", keyID, userID).
		First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainErrors.ErrAPIKeyNotFound
		}
		return fmt.Errorf("failed to get api key: %w", err)
	}
	if !key.Active() {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", keyID).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to revoke api key: %w", result.Error)
	}
	return nil
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, keyID uint) error {
	err := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", keyID).
		UpdateColumn("last_used_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to stamp api key usage: %w", err)
	}
	return nil
}
