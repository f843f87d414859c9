package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "vaultpay/internal/errors"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/webhook"
)

// StripeConfig configures the Stripe-backed processor client.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type stripeClient struct {
	cfg StripeConfig
}

// NewStripeClient creates the production processor client. The webhook secret
// is required for ParseEvent; the API key is installed globally the way the
// stripe SDK expects.
func NewStripeClient(cfg StripeConfig) Client {
	stripe.Key = cfg.SecretKey
	return &stripeClient{cfg: cfg}
}

func (c *stripeClient) InitializeCollection(ctx context.Context, req CollectionRequest) (*Collection, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(req.Currency)),
				UnitAmount: stripe.Int64(req.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Wallet deposit"),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(c.cfg.SuccessURL),
		CancelURL:         stripe.String(c.cfg.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
		// The reference must come back on charge events, which is what the
		// webhook handler reconciles against.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"reference": req.Reference},
		},
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("reference", req.Reference)

	sess, err := session.New(params)
	if err != nil {
		return nil, domainErrors.Wrap(domainErrors.ErrGatewayUnavailable, fmt.Sprintf("stripe checkout session: %v", err))
	}

	return &Collection{
		Reference:        req.Reference,
		ProviderID:       sess.ID,
		AuthorizationURL: sess.URL,
	}, nil
}

func (c *stripeClient) ParseEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return nil, domainErrors.Wrap(domainErrors.ErrUnauthorized, "webhook signature verification failed")
	}

	switch event.Type {
	case EventChargeSucceeded, EventChargeFailed:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		return &Event{
			Type:       event.Type,
			Reference:  charge.Metadata["reference"],
			Amount:     charge.Amount,
			Currency:   strings.ToUpper(string(charge.Currency)),
			ProviderID: charge.ID,
		}, nil
	default:
		return &Event{Type: event.Type}, nil
	}
}
