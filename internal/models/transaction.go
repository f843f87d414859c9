package models

import (
	"time"
)

// TransactionType tells which direction value moved for the owning wallet.
// Amounts are always positive; direction lives here, never in the sign.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// Valid reports whether t is one of the known ledger entry types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeTransferIn, TransactionTypeTransferOut:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a ledger entry. Transitions are
// forward-only: pending may become success or failed, both of which are
// terminal.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Terminal reports whether the status can never change again.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// CanTransitionTo reports whether moving from s to next is allowed by the
// state machine. A same-state transition is allowed so that retried updates
// stay idempotent.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s == next {
		return true
	}
	return s == TransactionStatusPending && next.Terminal()
}

// Transaction is one ledger entry against a wallet: a deposit or one leg of
// a transfer. Reference is globally unique and immutable; it correlates the
// entry with an external payment event or with the counterpart transfer leg.
type Transaction struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	WalletID  uint              `gorm:"index;not null" json:"wallet_id"`
	Type      TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Amount    int64             `gorm:"not null;check:chk_transaction_amount,amount > 0" json:"amount"`
	Status    TransactionStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	Reference string            `gorm:"uniqueIndex;not null" json:"reference"`
	Metadata  JSON              `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
