package repositories

import (
	"context"

	"vaultpay/internal/models"
)

// APIKeyRepository defines the interface for API key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error

	// GetByPrefix looks a key up by its public prefix. Revoked keys are
	// still returned; callers decide what a revoked key means for them.
	GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error)

	ListByUser(ctx context.Context, userID uint) ([]models.APIKey, error)

	// Revoke marks the key unusable. Revoking an already revoked key is a
	// no-op so retried revocations stay idempotent.
	Revoke(ctx context.Context, userID, keyID uint) error

	// TouchLastUsed stamps the key's last successful authentication time.
	TouchLastUsed(ctx context.Context, keyID uint) error
}
