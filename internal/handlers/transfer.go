package handlers

import (
	"vaultpay/internal/services/transfer"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/response"
	"vaultpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	transferService transfer.Service
}

func NewTransferHandler(transferService transfer.Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Transfer moves funds from the caller's wallet to another wallet. The
// response carries the caller's transfer_out ledger entry; its reference is
// the handle for both legs.
func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	var input struct {
		RecipientWalletNumber string `json:"recipient_wallet_number"`
		Amount                int64  `json:"amount"`
		Narration             string `json:"narration"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.TransferInput(input.RecipientWalletNumber, input.Amount)
	if !v.Valid() {
		return response.Validation(c, v.Errors)
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	entry, err := h.transferService.Transfer(c.Context(), transfer.Input{
		SenderUserID:         principal.UserID,
		ReceiverWalletNumber: input.RecipientWalletNumber,
		Amount:               input.Amount,
		Narration:            input.Narration,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "transfer completed", entry)
}
