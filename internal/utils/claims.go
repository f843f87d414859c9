package utils

import (
	"errors"

	"vaultpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPrincipal extracts the authenticated principal from the Fiber context.
// It returns an error if the auth middleware did not run.
func GetPrincipal(c *fiber.Ctx) (*models.Principal, error) {
	v := c.Locals("principal")
	if v == nil {
		return nil, errors.New("principal not found in context")
	}

	principal, ok := v.(*models.Principal)
	if !ok {
		return nil, errors.New("invalid principal type")
	}
	return principal, nil
}

// GetUserClaims extracts the session JWT claims from the Fiber context.
// Only session-authenticated requests carry claims.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
