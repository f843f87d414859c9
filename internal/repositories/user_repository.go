package repositories

import (
	"context"

	"vaultpay/internal/models"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// IncrementTokenVersion bumps the user's token version, invalidating
	// every refresh token issued before the bump.
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, userID uint) error
}
