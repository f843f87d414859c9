package handlers

import (
	"strconv"

	"vaultpay/internal/services/apikey"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/response"
	"vaultpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type APIKeyHandler struct {
	keyService apikey.Service
}

func NewAPIKeyHandler(keyService apikey.Service) *APIKeyHandler {
	return &APIKeyHandler{
		keyService: keyService,
	}
}

// Issue mints a scoped key. The plaintext secret appears in this response
// and nowhere else, ever.
func (h *APIKeyHandler) Issue(c *fiber.Ctx) error {
	var input struct {
		Label       string   `json:"label"`
		Permissions []string `json:"permissions"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.APIKeyInput(input.Label, input.Permissions)
	if !v.Valid() {
		return response.Validation(c, v.Errors)
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	key, secret, err := h.keyService.Issue(c.Context(), principal.UserID, input.Label, input.Permissions)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "api key issued", fiber.Map{
		"key":    key,
		"secret": secret,
	})
}

// List returns the caller's keys, hashes omitted.
func (h *APIKeyHandler) List(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	keys, err := h.keyService.List(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "api keys", keys)
}

// Revoke disables one of the caller's keys.
func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	keyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid key id")
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.keyService.Revoke(c.Context(), principal.UserID, uint(keyID)); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "api key revoked", nil)
}
