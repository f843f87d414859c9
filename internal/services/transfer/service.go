package transfer

import (
	"context"
	"fmt"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/wallet"
	"vaultpay/internal/utils"
)

const referencePrefix = "TRF"

// service implements the transfer Service interface.
type service struct {
	wallets WalletReader
	tx      repositories.TxManager
	cache   wallet.CacheOperator
}

// NewService creates a new transfer service instance.
func NewService(wallets WalletReader, tx repositories.TxManager, cacheOp wallet.CacheOperator) Service {
	if wallets == nil {
		panic("wallet reader is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}
	if cacheOp == nil {
		cacheOp = wallet.NewCacheOperator(nil)
	}
	return &service{wallets: wallets, tx: tx, cache: cacheOp}
}

func (s *service) Transfer(ctx context.Context, input Input) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	sender, err := s.wallets.GetByUserID(ctx, input.SenderUserID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.wallets.GetByNumber(ctx, input.ReceiverWalletNumber)
	if err != nil {
		return nil, err
	}
	if sender.ID == receiver.ID {
		return nil, domainErrors.ErrSelfTransfer
	}
	// Cheap pre-check on a possibly stale read; the authoritative check runs
	// again under lock.
	if sender.Balance < input.Amount {
		return nil, domainErrors.ErrInsufficientBalance
	}

	reference := utils.NewReference(referencePrefix)
	outEntry := &models.Transaction{
		WalletID:  sender.ID,
		Type:      models.TransactionTypeTransferOut,
		Amount:    input.Amount,
		Status:    models.TransactionStatusSuccess,
		Reference: reference + "-OUT",
		Metadata: models.JSON{
			"counterparty_wallet_number": receiver.WalletNumber,
			"counterpart_reference":      reference + "-IN",
		},
	}
	inEntry := &models.Transaction{
		WalletID:  receiver.ID,
		Type:      models.TransactionTypeTransferIn,
		Amount:    input.Amount,
		Status:    models.TransactionStatusSuccess,
		Reference: reference + "-IN",
		Metadata: models.JSON{
			"counterparty_wallet_number": sender.WalletNumber,
			"counterpart_reference":      reference + "-OUT",
		},
	}
	if input.Narration != "" {
		outEntry.Metadata["narration"] = input.Narration
		inEntry.Metadata["narration"] = input.Narration
	}

	err = s.tx.RunInTransaction(ctx, func(uow *repositories.UnitOfWork) error {
		// Always lock the lower wallet id first so two opposite transfers
		// between the same pair cannot deadlock.
		firstID, secondID := sender.ID, receiver.ID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}

		first, err := uow.Wallets.LockForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := uow.Wallets.LockForUpdate(ctx, secondID)
		if err != nil {
			return err
		}

		lockedSender, lockedReceiver := first, second
		if lockedSender.ID != sender.ID {
			lockedSender, lockedReceiver = second, first
		}

		if lockedSender.Balance < input.Amount {
			return domainErrors.ErrInsufficientBalance
		}

		if err := uow.Wallets.UpdateBalance(ctx, lockedSender.ID, lockedSender.Balance-input.Amount); err != nil {
			return fmt.Errorf("failed to debit sender: %w", err)
		}
		if err := uow.Wallets.UpdateBalance(ctx, lockedReceiver.ID, lockedReceiver.Balance+input.Amount); err != nil {
			return fmt.Errorf("failed to credit receiver: %w", err)
		}

		if err := uow.Transactions.Record(ctx, outEntry); err != nil {
			return err
		}
		return uow.Transactions.Record(ctx, inEntry)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateWallet(ctx, sender.UserID)
	s.cache.InvalidateWallet(ctx, receiver.UserID)

	return outEntry, nil
}
