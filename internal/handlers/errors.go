package handlers

import (
	"errors"
	"log"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the HTTP surface. Domain errors
// carry their own stable message; anything else is logged and hidden behind
// a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *domainErrors.DomainError
	if !errors.As(err, &domainErr) {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return response.ServerError(c, "something went wrong")
	}

	msg := domainErr.Message
	switch {
	case errors.Is(err, domainErrors.ErrWalletNotFound),
		errors.Is(err, domainErrors.ErrTransactionNotFound),
		errors.Is(err, domainErrors.ErrUserNotFound),
		errors.Is(err, domainErrors.ErrAPIKeyNotFound),
		errors.Is(err, domainErrors.ErrNotFound):
		return response.NotFound(c, msg)

	case errors.Is(err, domainErrors.ErrWalletExists),
		errors.Is(err, domainErrors.ErrEmailTaken),
		errors.Is(err, domainErrors.ErrDuplicateReference),
		errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrContention):
		return response.Conflict(c, msg)

	case errors.Is(err, domainErrors.ErrUnauthorized),
		errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrAPIKeyRevoked):
		return response.Error(c, fiber.StatusUnauthorized, msg)

	case errors.Is(err, domainErrors.ErrGatewayUnavailable),
		errors.Is(err, domainErrors.ErrWalletNumbersExhausted):
		return response.ServiceUnavailable(c, msg)

	case errors.Is(err, domainErrors.ErrInsufficientBalance),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrSelfTransfer),
		errors.Is(err, domainErrors.ErrInvalidEvent),
		errors.Is(err, domainErrors.ErrInvalidOperation):
		return response.BadRequest(c, msg)

	default:
		log.Printf("unmapped domain error %s on %s %s", domainErr.Code, c.Method(), c.Path())
		return response.BadRequest(c, msg)
	}
}
