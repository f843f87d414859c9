package handlers

import (
	"errors"
	"log"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/services/deposit"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	depositService deposit.Service
}

func NewWebhookHandler(depositService deposit.Service) *WebhookHandler {
	return &WebhookHandler{
		depositService: depositService,
	}
}

// HandleStripe receives processor notifications. The signature is verified
// over the raw body bytes, so nothing may touch the payload before the
// service sees it. Only a signature failure is rejected; every other outcome
// is acknowledged so the processor stops redelivering events we can never
// apply.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	err := h.depositService.HandleEvent(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			return response.Error(c, fiber.StatusUnauthorized, "invalid signature")
		}
		log.Printf("webhook event not applied: %v", err)
	}

	return response.Success(c, "acknowledged", nil)
}
