package handlers

import (
	"vaultpay/internal/services/deposit"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/response"
	"vaultpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type DepositHandler struct {
	depositService deposit.Service
	minAmount      int64
}

func NewDepositHandler(depositService deposit.Service, minAmount int64) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
		minAmount:      minAmount,
	}
}

// Initiate starts a card deposit and returns the processor checkout URL
// together with the ledger reference to poll.
func (h *DepositHandler) Initiate(c *fiber.Ctx) error {
	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.DepositInput(input.Amount, h.minAmount)
	if !v.Valid() {
		return response.Validation(c, v.Errors)
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	// Session callers carry an email the processor can prefill; API keys
	// do not.
	var email string
	if claims, err := utils.GetUserClaims(c); err == nil {
		email = claims.Email
	}

	receipt, err := h.depositService.Initiate(c.Context(), deposit.InitiateInput{
		UserID: principal.UserID,
		Amount: input.Amount,
		Email:  email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "deposit initiated", receipt)
}

// Status returns the caller's deposit ledger entry for a reference.
func (h *DepositHandler) Status(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return response.BadRequest(c, "reference is required")
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	entry, err := h.depositService.Status(c.Context(), principal.UserID, reference)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "deposit status", entry)
}
