package transfer

import (
	"context"

	"vaultpay/internal/models"
)

// WalletReader defines the pool-backed wallet lookups used for pre-checks.
// Authoritative balance reads happen again under lock inside the transfer.
type WalletReader interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByNumber(ctx context.Context, number string) (*models.Wallet, error)
}

// Input describes a requested peer-to-peer transfer. Amount is in minor
// units. The receiver is addressed by wallet number, which is the only
// wallet identifier users ever exchange.
type Input struct {
	SenderUserID         uint
	ReceiverWalletNumber string
	Amount               int64
	Narration            string
}

// Service moves funds between two wallets atomically.
type Service interface {
	// Transfer debits the sender and credits the receiver in one database
	// transaction and records both ledger legs. It returns the sender's
	// transfer_out entry, whose reference correlates the pair.
	Transfer(ctx context.Context, input Input) (*models.Transaction, error)
}
