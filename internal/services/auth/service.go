// Package auth owns account lifecycle and session issuance. Passwords are
// bcrypt hashes; sessions are stateless JWT pairs invalidated through the
// user's token version.
package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/utils"
	"vaultpay/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register creates the account, provisions its wallet and signs the
	// caller in. Every account gets exactly one wallet, created here.
	Register(ctx context.Context, input models.CreateUserInput) (*models.User, string, string, error)

	// Login exchanges credentials for an access and refresh token pair.
	Login(ctx context.Context, input models.LoginInput) (*models.User, string, string, error)

	// RefreshTokens rotates the token pair. Tokens issued before the user's
	// last logout are rejected.
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)

	// Logout bumps the token version, invalidating all outstanding tokens.
	Logout(ctx context.Context, userID uint) error

	// ChangePassword verifies the old password, stores the new hash and
	// invalidates all outstanding tokens.
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

// WalletProvisioner is the slice of the wallet service registration needs.
type WalletProvisioner interface {
	Create(ctx context.Context, userID uint) (*models.Wallet, error)
}

type service struct {
	users   repositories.UserRepository
	wallets WalletProvisioner
}

func NewService(users repositories.UserRepository, wallets WalletProvisioner) Service {
	if users == nil {
		panic("user repository is required")
	}
	if wallets == nil {
		panic("wallet provisioner is required")
	}
	return &service{users: users, wallets: wallets}
}

func (s *service) Register(ctx context.Context, input models.CreateUserInput) (*models.User, string, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    normalizeEmail(input.Email),
		Password: string(hashed),
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Role:     "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	if _, err := s.wallets.Create(ctx, user.ID); err != nil {
		// The account row exists without a wallet now; surface the failure
		// so the operator sees it rather than papering over it.
		log.Printf("failed to provision wallet for user %d: %v", user.ID, err)
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *service) Login(ctx context.Context, input models.LoginInput) (*models.User, string, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		// Same answer whether the email is unknown or the password is wrong.
		return nil, "", "", domainErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", "", domainErrors.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("failed to stamp last login for user %d: %v", user.ID, err)
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", domainErrors.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", domainErrors.ErrUnauthorized
	}
	if user.TokenVersion != claims.TokenVersion {
		// A logout or password change happened after this token was issued.
		return "", "", domainErrors.ErrUnauthorized
	}

	return s.issueTokens(user)
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return domainErrors.ErrInvalidCredentials
	}

	v := validation.New()
	v.Password("password", newPassword)
	if !v.Valid() {
		return domainErrors.Wrap(domainErrors.ErrInvalidOperation, "weak password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	user.TokenVersion++ // invalidate existing tokens
	return s.users.Update(ctx, user)
}

func (s *service) issueTokens(user *models.User) (string, string, error) {
	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		log.Printf("failed to generate tokens for user %d: %v", user.ID, err)
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}
	return access, refresh, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
