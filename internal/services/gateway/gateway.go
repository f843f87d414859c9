// Package gateway abstracts the external card processor used to collect
// deposits. The rest of the system only ever sees ledger references and
// minor-unit amounts; processor identifiers stay inside this package's types.
package gateway

import "context"

// Processor event classes the reconciliation flow reacts to. Every other
// class is acknowledged and ignored.
const (
	EventChargeSucceeded = "charge.succeeded"
	EventChargeFailed    = "charge.failed"
)

// CollectionRequest asks the processor to collect Amount (minor units) from
// the customer, tagged with our ledger reference.
type CollectionRequest struct {
	Reference     string
	Amount        int64
	Currency      string
	CustomerEmail string
}

// Collection is the processor-side handle for an initiated collection. The
// customer completes payment at AuthorizationURL.
type Collection struct {
	Reference        string
	ProviderID       string
	AuthorizationURL string
}

// Event is a webhook notification that passed signature verification.
type Event struct {
	Type       string
	Reference  string
	Amount     int64
	Currency   string
	ProviderID string
}

// Client is the processor-facing port.
type Client interface {
	// InitializeCollection registers a pending collection with the processor
	// and returns where to send the customer. Failures surface as
	// ErrGatewayUnavailable.
	InitializeCollection(ctx context.Context, req CollectionRequest) (*Collection, error)

	// ParseEvent verifies signature over the exact raw payload bytes and
	// decodes the notification. A bad signature surfaces as ErrUnauthorized;
	// event classes we do not handle come back with only Type set.
	ParseEvent(payload []byte, signature string) (*Event, error)
}
