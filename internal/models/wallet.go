package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletNumberLength is the fixed length of an externally shareable wallet
// number: WalletNumberPrefix followed by random digits.
const (
	WalletNumberLength = 10
	WalletNumberPrefix = "52"
)

// DefaultCurrency is the display currency for new wallets. Balances are
// stored in its minor unit (kobo) regardless.
const DefaultCurrency = "NGN"

// Wallet is the durable balance record for a single user. Balance is an
// integer amount in the currency's minor unit (kobo); it is never negative
// and is only mutated under a row lock inside a database transaction.
type Wallet struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	WalletNumber string    `gorm:"uniqueIndex;not null" json:"wallet_number"`
	Balance      int64     `gorm:"not null;default:0;check:chk_wallet_balance,balance >= 0" json:"balance"`
	Currency     string    `gorm:"not null;default:'NGN'" json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Wallets always start empty; funds only arrive through the ledger.
	w.Balance = 0
	return nil
}
