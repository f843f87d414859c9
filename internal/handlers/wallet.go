package handlers

import (
	"vaultpay/internal/services/wallet"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/pagination"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetWallet returns the caller's wallet, wallet number included.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.GetByUserID(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "wallet", w)
}

// GetBalance returns just the balance, in minor units.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	balance, err := h.walletService.Balance(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "balance", fiber.Map{
		"balance": balance,
	})
}

// GetTransactions pages through the caller's ledger entries, newest first.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	entries, total, err := h.walletService.History(c.Context(), principal.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.Total = total

	return c.JSON(pagination.Response(p, entries))
}
