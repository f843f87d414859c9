package handlers

import (
	"log"
	"time"

	"vaultpay/internal/config"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/auth"
	"vaultpay/internal/utils"
	"vaultpay/internal/utils/response"
	"vaultpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	users       repositories.UserRepository
}

func NewAuthHandler(authService auth.Service, users repositories.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
	}
}

// Register creates an account with its wallet and signs the caller in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.RegisterInput(&input)
	if !v.Valid() {
		return response.Validation(c, v.Errors)
	}

	user, accessToken, refreshToken, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return response.Created(c, "account created", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input models.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return response.Success(c, "logged in", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Refresh rotates the token pair. The refresh token is read from the cookie
// first, then the body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Error(c, fiber.StatusUnauthorized, "refresh token not provided")
	}

	accessToken, newRefreshToken, err := h.authService.RefreshTokens(c.Context(), refreshToken)
	if err != nil {
		log.Printf("token refresh failed: %v", err)
		return respondError(c, err)
	}

	h.setAuthCookies(c, accessToken, newRefreshToken)

	return response.Success(c, "tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
	})
}

// Logout invalidates every outstanding token for the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(c.Context(), principal.UserID); err != nil {
		return respondError(c, err)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "logged out", nil)
}

// ChangePassword rotates the caller's password and invalidates all tokens.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.ChangePassword(c.Context(), principal.UserID, input.OldPassword, input.NewPassword); err != nil {
		return respondError(c, err)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "password changed", nil)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := utils.GetPrincipal(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	user, err := h.users.GetByID(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "profile", user)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   15 * 60,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   7 * 24 * 60 * 60,
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     "/",
		})
	}
}
