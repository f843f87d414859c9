// Package middleware carries request authentication for the HTTP surface.
// Requests authenticate either with a Bearer JWT session token or with an
// X-API-Key machine secret; both paths leave a models.Principal in the
// request context for handlers and permission guards.
package middleware

import (
	"errors"
	"log"
	"strings"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/apikey"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const apiKeyHeader = "X-API-Key"

type AuthMiddleware struct {
	users repositories.UserRepository
	keys  apikey.Service
}

func NewAuthMiddleware(users repositories.UserRepository, keys apikey.Service) *AuthMiddleware {
	if users == nil {
		panic("user repository is required")
	}
	if keys == nil {
		panic("api key service is required")
	}
	return &AuthMiddleware{users: users, keys: keys}
}

// Handler authenticates the request. An X-API-Key header wins over a Bearer
// token when both are present.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	if secret := c.Get(apiKeyHeader); secret != "" {
		return m.authenticateAPIKey(c, secret)
	}
	return m.authenticateSession(c)
}

func (m *AuthMiddleware) authenticateSession(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing credentials")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	_, claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("token for missing user %d", claims.UserID)
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Error(c, fiber.StatusUnauthorized, "session expired")
	}

	c.Locals("claims", claims)
	c.Locals("principal", &models.Principal{
		Kind:   models.PrincipalSession,
		UserID: user.ID,
	})
	return c.Next()
}

func (m *AuthMiddleware) authenticateAPIKey(c *fiber.Ctx, secret string) error {
	principal, err := m.keys.Authenticate(c.Context(), secret)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAPIKeyRevoked):
			return response.Error(c, fiber.StatusUnauthorized, "api key revoked")
		case errors.Is(err, domainErrors.ErrUnauthorized):
			return response.Error(c, fiber.StatusUnauthorized, "invalid api key")
		default:
			log.Printf("api key authentication error: %v", err)
			return response.ServerError(c, "authentication failed")
		}
	}

	c.Locals("principal", principal)
	return c.Next()
}

// RequirePermission guards a route with one permission. Session principals
// always pass; API-key principals pass only if the key was scoped to it.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := utils.GetPrincipal(c)
		if err != nil {
			return response.Unauthorized(c)
		}
		if !principal.Allows(permission) {
			return response.Forbidden(c, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireSession guards routes that must not be driven by machine
// credentials, such as key management and password changes.
func RequireSession(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if principal.Kind != models.PrincipalSession {
		return response.Forbidden(c, "session authentication required")
	}
	return c.Next()
}
