/*
Package wallet provides wallet provisioning and read operations.

The wallet service handles:
- Wallet creation with unique 10-digit wallet number assignment
- Wallet and balance lookups (by owner or by wallet number)
- Transaction history
- Cache management for hot wallet reads

Usage:

	svc := wallet.NewService(walletRepo, txRepo, cacheOp, wallet.NewNumberGenerator(), wallet.Config{}, nil)

	// Provision a wallet for a new user
	w, err := svc.Create(ctx, userID)

	// Read the current balance in minor units
	balance, err := svc.Balance(ctx, userID)

	// Page through the ledger, newest first
	entries, total, err := svc.History(ctx, userID, 20, 0)

Balances are int64 minor units and are never mutated here: crediting and
debiting happen in the transfer and deposit services, under row locks, inside
a unit of work.

Wallet numbers are fixed-length digit strings drawn from crypto/rand. Each
candidate is checked against the store before use; the unique index remains
the backstop for the check-to-insert race. Creation gives up with
ErrWalletNumbersExhausted after a bounded number of attempts.
*/
package wallet
