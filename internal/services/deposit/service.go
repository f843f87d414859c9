package deposit

import (
	"context"
	"fmt"
	"log"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/gateway"
	"vaultpay/internal/services/wallet"
	"vaultpay/internal/utils"
)

const referencePrefix = "DEP"

// Config holds deposit policy.
type Config struct {
	// MinAmount is the smallest deposit accepted, in minor units.
	MinAmount int64
}

type service struct {
	wallets WalletReader
	ledger  repositories.TransactionRepository
	tx      repositories.TxManager
	gateway gateway.Client
	cache   wallet.CacheOperator
	config  Config
}

// NewService creates a new deposit service instance.
func NewService(
	wallets WalletReader,
	ledger repositories.TransactionRepository,
	tx repositories.TxManager,
	gatewayClient gateway.Client,
	cacheOp wallet.CacheOperator,
	config Config,
) Service {
	if wallets == nil {
		panic("wallet reader is required")
	}
	if ledger == nil {
		panic("transaction repository is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}
	if gatewayClient == nil {
		panic("gateway client is required")
	}
	if cacheOp == nil {
		cacheOp = wallet.NewCacheOperator(nil)
	}
	if config.MinAmount <= 0 {
		config.MinAmount = 100 // 1.00 NGN
	}

	return &service{
		wallets: wallets,
		ledger:  ledger,
		tx:      tx,
		gateway: gatewayClient,
		cache:   cacheOp,
		config:  config,
	}
}

func (s *service) Initiate(ctx context.Context, input InitiateInput) (*Receipt, error) {
	if input.Amount < s.config.MinAmount {
		return nil, domainErrors.ErrInvalidAmount
	}

	w, err := s.wallets.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	// The pending row is recorded before the processor hears about the
	// collection, so a crash between the two leaves an auditable trail
	// rather than an untracked charge.
	entry := &models.Transaction{
		WalletID:  w.ID,
		Type:      models.TransactionTypeDeposit,
		Amount:    input.Amount,
		Status:    models.TransactionStatusPending,
		Reference: utils.NewReference(referencePrefix),
		Metadata:  models.JSON{},
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		return nil, err
	}

	collection, err := s.gateway.InitializeCollection(ctx, gateway.CollectionRequest{
		Reference:     entry.Reference,
		Amount:        entry.Amount,
		Currency:      w.Currency,
		CustomerEmail: input.Email,
	})
	if err != nil {
		if _, failErr := s.ledger.UpdateStatus(ctx, entry.ID, models.TransactionStatusFailed, models.JSON{
			"failure_reason": "gateway_unavailable",
		}); failErr != nil {
			log.Printf("failed to mark deposit %s failed after gateway error: %v", entry.Reference, failErr)
		}
		return nil, err
	}

	if err := s.ledger.MergeMetadata(ctx, entry.ID, models.JSON{
		"provider_id": collection.ProviderID,
	}); err != nil {
		log.Printf("failed to attach provider id to deposit %s: %v", entry.Reference, err)
	}

	return &Receipt{
		Reference:        entry.Reference,
		AuthorizationURL: collection.AuthorizationURL,
		Transaction:      entry,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case gateway.EventChargeSucceeded:
		return s.reconcile(ctx, event, true)
	case gateway.EventChargeFailed:
		return s.reconcile(ctx, event, false)
	default:
		log.Printf("ignoring %s event", event.Type)
		return nil
	}
}

func (s *service) reconcile(ctx context.Context, event *gateway.Event, succeeded bool) error {
	if event.Reference == "" {
		log.Printf("dropping %s event %s without a reference", event.Type, event.ProviderID)
		return nil
	}

	var creditedUserID uint
	var credited bool
	// Mutations that must survive the commit even though the event itself is
	// reported as invalid.
	var invalidEvent error

	err := s.tx.RunInTransaction(ctx, func(uow *repositories.UnitOfWork) error {
		// The reference row is the serialization point: concurrent deliveries
		// of the same event queue up here.
		entry, err := uow.Transactions.LockByReference(ctx, event.Reference)
		if err != nil {
			return err
		}
		if entry.Type != models.TransactionTypeDeposit {
			return domainErrors.Wrap(domainErrors.ErrInvalidEvent,
				fmt.Sprintf("reference %s is not a deposit", event.Reference))
		}

		if !succeeded {
			switch entry.Status {
			case models.TransactionStatusFailed:
				return nil
			case models.TransactionStatusSuccess:
				return domainErrors.Wrap(domainErrors.ErrInvalidEvent,
					fmt.Sprintf("failure event for already credited deposit %s", entry.Reference))
			}
			_, err := uow.Transactions.UpdateStatus(ctx, entry.ID, models.TransactionStatusFailed, models.JSON{
				"provider_id":    event.ProviderID,
				"failure_reason": "charge_failed",
			})
			return err
		}

		switch entry.Status {
		case models.TransactionStatusSuccess:
			// Redelivery of an event we already applied.
			return nil
		case models.TransactionStatusFailed:
			return domainErrors.Wrap(domainErrors.ErrInvalidEvent,
				fmt.Sprintf("success event for already failed deposit %s", entry.Reference))
		}

		if event.Amount != entry.Amount {
			// The processor collected a different amount than we recorded.
			// Never credit on a mismatch; fail the row but keep that write.
			if _, err := uow.Transactions.UpdateStatus(ctx, entry.ID, models.TransactionStatusFailed, models.JSON{
				"provider_id":    event.ProviderID,
				"failure_reason": "amount_mismatch",
				"event_amount":   event.Amount,
			}); err != nil {
				return err
			}
			invalidEvent = domainErrors.Wrap(domainErrors.ErrInvalidEvent,
				fmt.Sprintf("amount mismatch on deposit %s: recorded %d, event %d", entry.Reference, entry.Amount, event.Amount))
			return nil
		}

		w, err := uow.Wallets.LockForUpdate(ctx, entry.WalletID)
		if err != nil {
			return err
		}
		if err := uow.Wallets.UpdateBalance(ctx, w.ID, w.Balance+entry.Amount); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
		if _, err := uow.Transactions.UpdateStatus(ctx, entry.ID, models.TransactionStatusSuccess, models.JSON{
			"provider_id": event.ProviderID,
		}); err != nil {
			return err
		}

		creditedUserID = w.UserID
		credited = true
		return nil
	})
	if err != nil {
		return err
	}
	if invalidEvent != nil {
		return invalidEvent
	}

	if credited {
		s.cache.InvalidateWallet(ctx, creditedUserID)
	}
	return nil
}

func (s *service) Status(ctx context.Context, userID uint, reference string) (*models.Transaction, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.ledger.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if entry.WalletID != w.ID {
		// Another wallet's reference is indistinguishable from a missing one.
		return nil, domainErrors.ErrTransactionNotFound
	}
	return entry, nil
}
