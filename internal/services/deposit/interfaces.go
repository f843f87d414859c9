package deposit

import (
	"context"

	"vaultpay/internal/models"
)

// WalletReader defines the pool-backed wallet lookup used outside the unit
// of work.
type WalletReader interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
}

// InitiateInput describes a requested card deposit. Amount is in minor
// units. Email, when known, is forwarded to the processor's checkout page.
type InitiateInput struct {
	UserID uint
	Amount int64
	Email  string
}

// Receipt is what the caller needs to complete a deposit: the ledger
// reference to track and the processor page to pay at.
type Receipt struct {
	Reference        string              `json:"reference"`
	AuthorizationURL string              `json:"authorization_url"`
	Transaction      *models.Transaction `json:"transaction"`
}

// Service owns the deposit lifecycle: initiation against the processor and
// reconciliation of the processor's webhook events into wallet credits.
type Service interface {
	// Initiate records a pending deposit and registers the collection with
	// the processor. The pending ledger row exists before the processor is
	// ever contacted; if the processor call fails the row is marked failed
	// and ErrGatewayUnavailable is returned.
	Initiate(ctx context.Context, input InitiateInput) (*Receipt, error)

	// HandleEvent verifies and applies one webhook notification. It is
	// idempotent: redelivered events of an already reconciled deposit change
	// nothing. Signature failures return ErrUnauthorized; every other
	// outcome, including unknown references, is safe to acknowledge.
	HandleEvent(ctx context.Context, payload []byte, signature string) error

	// Status returns the caller's deposit ledger entry for a reference.
	Status(ctx context.Context, userID uint, reference string) (*models.Transaction, error)
}
