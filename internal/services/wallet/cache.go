package wallet

import (
	"context"
	"log"

	"vaultpay/internal/models"
	"vaultpay/internal/repositories/cache"
)

type cacheAdapter struct {
	service *cache.Service
}

// NewCacheOperator bridges the shared Redis cache service to the wallet cache
// surface. A nil service disables caching entirely.
func NewCacheOperator(service *cache.Service) CacheOperator {
	return &cacheAdapter{service: service}
}

func (a *cacheAdapter) GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool) {
	if a.service == nil {
		return nil, false
	}
	var wallet models.Wallet
	found, err := a.service.Get(ctx, cache.WalletUserKey(userID), &wallet)
	if err != nil || !found {
		return nil, false
	}
	return &wallet, true
}

func (a *cacheAdapter) SetWallet(ctx context.Context, wallet *models.Wallet) {
	if a.service == nil || wallet == nil {
		return
	}
	if err := a.service.Set(ctx, cache.WalletUserKey(wallet.UserID), wallet); err != nil {
		log.Printf("failed to cache wallet for user %d: %v", wallet.UserID, err)
	}
}

func (a *cacheAdapter) InvalidateWallet(ctx context.Context, userID uint) {
	if a.service == nil {
		return
	}
	if err := a.service.Delete(ctx, cache.WalletUserKey(userID)); err != nil {
		log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}
