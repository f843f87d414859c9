package validation

import (
	"vaultpay/internal/models"
)

// WalletNumber checks the fixed-length all-digit wallet number format.
func (v *Validator) WalletNumber(field, number string) {
	if len(number) != models.WalletNumberLength {
		v.AddError(field, "must be a 10 digit wallet number")
		return
	}
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			v.AddError(field, "must contain only digits")
			return
		}
	}
}

// TransferInput validates a transfer request payload.
func (v *Validator) TransferInput(recipientWalletNumber string, amount int64) {
	v.Required("recipient_wallet_number", recipientWalletNumber)
	if recipientWalletNumber != "" {
		v.WalletNumber("recipient_wallet_number", recipientWalletNumber)
	}
	v.Amount("amount", amount, 1, MaxTransactionAmount)
}

// DepositInput validates a deposit initiation payload against the configured
// minimum.
func (v *Validator) DepositInput(amount, minAmount int64) {
	min := minAmount
	if min < 1 {
		min = MinTransactionAmount
	}
	v.Amount("amount", amount, min, MaxTransactionAmount)
}
