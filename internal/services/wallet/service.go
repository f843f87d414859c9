package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
)

// Config holds configuration for wallet operations.
type Config struct {
	DefaultCurrency string
	// MaxNumberAttempts bounds how many wallet numbers Create will try before
	// giving up with ErrWalletNumbersExhausted.
	MaxNumberAttempts int
}

type service struct {
	wallets repositories.WalletRepository
	ledger  repositories.TransactionRepository
	cache   CacheOperator
	numbers NumberGenerator
	config  Config
	metrics MetricsCollector
}

// NewService creates a new wallet service.
func NewService(
	wallets repositories.WalletRepository,
	ledger repositories.TransactionRepository,
	cacheOp CacheOperator,
	numbers NumberGenerator,
	config Config,
	metrics MetricsCollector,
) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if ledger == nil {
		panic("transaction repository is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = models.DefaultCurrency
	}
	if config.MaxNumberAttempts == 0 {
		config.MaxNumberAttempts = 10
	}
	if cacheOp == nil {
		cacheOp = NewCacheOperator(nil)
	}
	if numbers == nil {
		numbers = NewNumberGenerator()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		wallets: wallets,
		ledger:  ledger,
		cache:   cacheOp,
		numbers: numbers,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Create(ctx context.Context, userID uint) (*models.Wallet, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration("wallet.create", time.Since(start))
	}()

	if userID == 0 {
		return nil, domainErrors.Wrap(domainErrors.ErrInvalidOperation, "missing user id")
	}

	for attempt := 0; attempt < s.config.MaxNumberAttempts; attempt++ {
		number, err := s.numbers.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate wallet number: %w", err)
		}

		taken, err := s.wallets.NumberExists(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		wallet := &models.Wallet{
			UserID:       userID,
			WalletNumber: number,
			Currency:     s.config.DefaultCurrency,
		}
		err = s.wallets.Create(ctx, wallet)
		if err == nil {
			s.metrics.RecordOperationResult("wallet.create", "success")
			s.cache.SetWallet(ctx, wallet)
			return wallet, nil
		}
		if errors.Is(err, domainErrors.ErrWalletNumberTaken) {
			// Lost the number race between the check and the insert; draw again.
			continue
		}
		s.metrics.RecordOperationResult("wallet.create", "error")
		return nil, err
	}

	s.metrics.RecordOperationResult("wallet.create", "exhausted")
	return nil, domainErrors.ErrWalletNumbersExhausted
}

func (s *service) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	if wallet, ok := s.cache.GetWallet(ctx, userID); ok {
		s.metrics.RecordCacheHit("wallet")
		return wallet, nil
	}
	s.metrics.RecordCacheMiss("wallet")

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Wallet, error) {
	return s.wallets.GetByNumber(ctx, number)
}

func (s *service) Balance(ctx context.Context, userID uint) (int64, error) {
	wallet, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	wallet, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ledger.ListByWallet(ctx, wallet.ID, limit, offset)
}
